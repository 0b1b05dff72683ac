package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "zerobond",
		Name:      "ledger_operations_total",
		Help:      "Number of ledger operations partitioned by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func countOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	operationsCounter.WithLabelValues(operation, outcome).Inc()
}
