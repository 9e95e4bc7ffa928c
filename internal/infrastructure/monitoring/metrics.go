package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type LedgerMetrics struct {
	OperationsTotal   *prometheus.CounterVec
	ActiveLoansByRisk *prometheus.GaugeVec
	OutstandingByRisk *prometheus.GaugeVec
}

var Ledger = LedgerMetrics{
	OperationsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_ledger_operations_total",
			Help: "Total number of ledger store operations by outcome.",
		},
		[]string{"operation", "status"},
	),
	ActiveLoansByRisk: promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "loan_ledger_active_loans",
			Help: "Active loans per risk bucket, set by the risk review job.",
		},
		[]string{"risk"},
	),
	OutstandingByRisk: promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "loan_ledger_outstanding_amount",
			Help: "Total outstanding amount (principal plus accrued interest) per risk bucket.",
		},
		[]string{"risk"},
	),
}

func RecordLedgerOperation(operation, status string) {
	Ledger.OperationsTotal.WithLabelValues(operation, status).Inc()
}

func SetRiskBucket(risk string, loans int, outstanding float64) {
	Ledger.ActiveLoansByRisk.WithLabelValues(risk).Set(float64(loans))
	Ledger.OutstandingByRisk.WithLabelValues(risk).Set(outstanding)
}
