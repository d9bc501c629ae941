package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type StoreMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	PaymentsRecordedTotal *prometheus.CounterVec
	LoansByStatus         *prometheus.GaugeVec
}

var (
	Store = StoreMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_store_query_duration_seconds",
				Help:    "Histogram of payment store query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		PaymentsRecordedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_payments_recorded_total",
				Help: "Total number of payment recording attempts by outcome.",
			},
			[]string{"outcome"},
		),
		LoansByStatus: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loan_status_loans",
				Help: "Number of loans per derived payment status at the last status report.",
			},
			[]string{"status"},
		),
	}
)

func RecordPayment(outcome string) {
	Business.PaymentsRecordedTotal.WithLabelValues(outcome).Inc()
}

func RecordStoreQuery(queryName, status string, duration time.Duration) {
	Store.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func SetLoansByStatus(status string, count int) {
	Business.LoansByStatus.WithLabelValues(status).Set(float64(count))
}
