package postgres

import (
	"context"
	"errors"
	"fmt"
	"loan-servicing/internal/domain/loan"
	"loan-servicing/internal/infrastructure/monitoring"
	"loan-servicing/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pashagolub/pgxmock/v3"
)

const uniqueViolation = "23505"

type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Close()
}

var _ DBPool = (*pgxpool.Pool)(nil)

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

// PaymentStore keeps loans and payments in PostgreSQL.
type PaymentStore struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*PaymentStore)(nil)

func NewPaymentStore(db DBPool, logger *slog.Logger) *PaymentStore {
	return &PaymentStore{db: db, logger: logger.With("component", "PostgresPaymentStore")}
}

func observe(queryName string, start time.Time, errp *error) {
	status := "success"
	if err := *errp; err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		status = "error"
	}
	monitoring.RecordStoreQuery(queryName, status, time.Since(start))
}

const selectLoans = `
        SELECT id, name, interest_rate, principal, due_date
        FROM loans`

func (s *PaymentStore) ListLoans(ctx context.Context) (loans []loan.Loan, err error) {
	defer observe("ListLoans", time.Now(), &err)

	rows, err := s.db.Query(ctx, selectLoans+` ORDER BY id`)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to query loans", "error", err)
		return nil, apperrors.WrapDatabaseError(err, "failed to query loans")
	}
	defer rows.Close()

	loans = make([]loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		if err = rows.Scan(&l.ID, &l.Name, &l.InterestRate, &l.Principal, &l.DueDate); err != nil {
			s.logger.ErrorContext(ctx, "Failed to scan loan row", "error", err)
			return nil, apperrors.WrapDatabaseError(err, "failed to read loan")
		}
		loans = append(loans, l)
	}
	if err = rows.Err(); err != nil {
		s.logger.ErrorContext(ctx, "Error iterating loan rows", "error", err)
		return nil, apperrors.WrapDatabaseError(err, "failed to read loans")
	}
	return loans, nil
}

func (s *PaymentStore) FindLoan(ctx context.Context, loanID int64) (l *loan.Loan, err error) {
	defer observe("FindLoan", time.Now(), &err)

	var found loan.Loan
	err = s.db.QueryRow(ctx, selectLoans+` WHERE id = $1`, loanID).Scan(
		&found.ID, &found.Name, &found.InterestRate, &found.Principal, &found.DueDate,
	)
	if err != nil {
		return nil, translateDBError(err, s.logger.With("loan_id", loanID))
	}
	return &found, nil
}

const selectPayments = `
        SELECT id, loan_id, payment_amount, payment_date
        FROM payments`

func scanPayment(row pgx.Row) (loan.Payment, error) {
	var (
		p    loan.Payment
		date pgtype.Date
	)
	if err := row.Scan(&p.ID, &p.LoanID, &p.PaymentAmount, &date); err != nil {
		return p, err
	}
	if date.Valid {
		d := loan.NewDate(date.Time.Year(), date.Time.Month(), date.Time.Day())
		p.PaymentDate = &d
	}
	return p, nil
}

func (s *PaymentStore) ListPaymentsByLoan(ctx context.Context, loanID int64) (payments []loan.Payment, err error) {
	defer observe("ListPaymentsByLoan", time.Now(), &err)

	rows, err := s.db.Query(ctx, selectPayments+` WHERE loan_id = $1 ORDER BY id`, loanID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to query payments", "loan_id", loanID, "error", err)
		return nil, apperrors.WrapDatabaseError(err, "failed to query payments")
	}
	defer rows.Close()

	payments = make([]loan.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to scan payment row", "loan_id", loanID, "error", err)
			return nil, apperrors.WrapDatabaseError(err, "failed to read payment")
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		s.logger.ErrorContext(ctx, "Error iterating payment rows", "loan_id", loanID, "error", err)
		return nil, apperrors.WrapDatabaseError(err, "failed to read payments")
	}
	return payments, nil
}

// FindPaymentForLoan orders dated payments ahead of undated ones, then by insertion.
func (s *PaymentStore) FindPaymentForLoan(ctx context.Context, loanID int64) (p *loan.Payment, err error) {
	defer observe("FindPaymentForLoan", time.Now(), &err)

	query := selectPayments + `
        WHERE loan_id = $1
        ORDER BY payment_date IS NULL, id
        LIMIT 1`

	found, err := scanPayment(s.db.QueryRow(ctx, query, loanID))
	if err != nil {
		return nil, translateDBError(err, s.logger.With("loan_id", loanID))
	}
	return &found, nil
}

func (s *PaymentStore) CountPayments(ctx context.Context) (count int64, err error) {
	defer observe("CountPayments", time.Now(), &err)

	if err = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`).Scan(&count); err != nil {
		s.logger.ErrorContext(ctx, "Failed to count payments", "error", err)
		return 0, apperrors.WrapDatabaseError(err, "failed to count payments")
	}
	return count, nil
}

func (s *PaymentStore) beginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return nil, apperrors.WrapDatabaseError(err, "failed to begin transaction")
	}
	return tx, nil
}

func (s *PaymentStore) rollbackTx(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		s.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", err)
	}
}

// AppendPayment locks the loan row so concurrent writers for one loan queue behind each other.
// The partial unique index on dated payments reports a second dated payment as apperrors.ErrConflict.
func (s *PaymentStore) AppendPayment(ctx context.Context, payment loan.Payment) (created *loan.Payment, err error) {
	defer observe("AppendPayment", time.Now(), &err)
	logCtx := s.logger.With("loan_id", payment.LoanID, "payment_id", payment.ID)

	tx, err := s.beginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer s.rollbackTx(ctx, tx)

	var lockedID int64
	err = tx.QueryRow(ctx, `SELECT id FROM loans WHERE id = $1 FOR UPDATE`, payment.LoanID).Scan(&lockedID)
	if err != nil {
		return nil, translateDBError(err, logCtx)
	}

	date := pgtype.Date{}
	if payment.PaymentDate != nil {
		date = pgtype.Date{Time: *payment.PaymentDate, Valid: true}
	}

	insertSQL := `
        INSERT INTO payments (id, loan_id, payment_amount, payment_date)
        VALUES ($1, $2, $3, $4)`

	if _, err = tx.Exec(ctx, insertSQL, payment.ID, payment.LoanID, payment.PaymentAmount, date); err != nil {
		return nil, translateDBError(err, logCtx)
	}

	if err = tx.Commit(ctx); err != nil {
		logCtx.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return nil, apperrors.WrapDatabaseError(err, "failed to commit payment")
	}

	logCtx.InfoContext(ctx, "Payment stored")
	stored := payment
	return &stored, nil
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation {
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrConflict, pgErr.ConstraintName)
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return apperrors.WrapDatabaseError(pgErr, fmt.Sprintf("database error code %s", pgErr.Code))
	}

	contextLogger.Error("Generic database error", "error", err)
	return apperrors.WrapDatabaseError(err, "database operation failed")
}
