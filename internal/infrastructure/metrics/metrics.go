package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/cashledger/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger operation metrics
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	// Account metrics
	AccountsCreated prometheus.Counter

	// Money movement metrics
	DepositAmount  prometheus.Histogram
	TransferAmount prometheus.Histogram
	PaymentAmount  prometheus.Histogram

	// Cashback metrics
	CashbacksScheduled     prometheus.Counter
	CashbacksCredited      prometheus.Counter
	CashbackAmountCredited prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    *prometheus.CounterVec
}

var amountBuckets = []float64{1, 10, 100, 1000, 10000, 100000, 1000000}

// New creates all Prometheus metrics and registers them with reg.
// A nil reg registers with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashledger_operations_total",
				Help: "Total ledger operations by result",
			},
			[]string{"operation", "result"},
		),
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashledger_operation_duration_seconds",
				Help:    "Duration of ledger operations including the cashback sweep",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		DepositAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashledger_deposit_amount",
			Help:    "Deposit amounts",
			Buckets: amountBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashledger_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: amountBuckets,
		}),
		PaymentAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashledger_payment_amount",
			Help:    "Payment amounts",
			Buckets: amountBuckets,
		}),

		CashbacksScheduled: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashledger_cashbacks_scheduled_total",
			Help: "Total number of cashback entries scheduled by payments",
		}),
		CashbacksCredited: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashledger_cashbacks_credited_total",
			Help: "Total number of cashback entries credited by the sweep",
		}),
		CashbackAmountCredited: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashledger_cashback_amount_credited_total",
			Help: "Sum of cashback amounts credited by the sweep",
		}),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cashledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "cashledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		OutboxPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashledger_outbox_errors_total",
				Help: "Total outbox publishing errors by stage",
			},
			[]string{"stage"},
		),
	}
}

// ObserveOperation records the outcome and latency of a ledger operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, ResultLabel(err)).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveCashbackCredited records entries credited by one sweep.
func (m *Metrics) ObserveCashbackCredited(count int, amount int64) {
	if m == nil || count == 0 {
		return
	}
	m.CashbacksCredited.Add(float64(count))
	m.CashbackAmountCredited.Add(float64(amount))
}

// ResultLabel classifies an operation error into a low-cardinality label.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return "already_exists"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidAccountID):
		return "invalid_argument"
	case errors.Is(err, domain.ErrTransient):
		return "transient"
	default:
		return "error"
	}
}
