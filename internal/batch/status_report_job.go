package batch

import (
	"context"
	"fmt"
	"loan-servicing/internal/domain/loan"
	"loan-servicing/internal/infrastructure/monitoring"
	"log/slog"
	"time"
)

// StatusReportJob counts loans per derived status and publishes the counts as a gauge.
type StatusReportJob struct {
	loanService loan.LoanService
	logger      *slog.Logger
}

func NewStatusReportJob(loanSvc loan.LoanService, logger *slog.Logger) *StatusReportJob {
	if loanSvc == nil || logger == nil {
		panic("StatusReportJob dependencies cannot be nil")
	}
	return &StatusReportJob{
		loanService: loanSvc,
		logger:      logger.With("job", "StatusReport"),
	}
}

func (j *StatusReportJob) Run(ctx context.Context) (map[loan.PaymentStatus]int, error) {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting loan status report job.")

	loans, err := j.loanService.ListLoans(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list loans, aborting job.", slog.Any("error", err))
		return nil, fmt.Errorf("cannot run job, failed to list loans: %w", err)
	}

	counts := make(map[loan.PaymentStatus]int, len(loan.AllStatuses()))
	for _, status := range loan.AllStatuses() {
		counts[status] = 0
	}
	for _, l := range loans {
		counts[l.Status]++
	}

	for status, count := range counts {
		monitoring.SetLoansByStatus(string(status), count)
	}

	j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("total_loans", len(loans)),
		slog.Int("unpaid", counts[loan.StatusUnpaid]),
		slog.Int("on_time", counts[loan.StatusOnTime]),
		slog.Int("late", counts[loan.StatusLate]),
		slog.Int("defaulted", counts[loan.StatusDefaulted]),
	).InfoContext(ctx, "Loan status report job finished successfully.")

	return counts, nil
}
