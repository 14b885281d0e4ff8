package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "poold"

	statusOK    = "ok"
	statusError = "error"
)

var (
	operationsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "pool_operations_total",
		Help:      "Number of pool operations by kind and outcome.",
	}, []string{"operation", "status"})

	swapVolumeCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "swap_volume_total",
		Help:      "Amount of asset sent to pools through swaps.",
	}, []string{"pool", "asset"})

	protocolFeesCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "protocol_fees_total",
		Help:      "Amount of asset collected in the protocol fee vaults.",
	}, []string{"pool", "asset"})
)

func observeOperation(operation string, err error) {
	status := statusOK
	if err != nil {
		status = statusError
	}
	operationsCounter.WithLabelValues(operation, status).Inc()
}

func observeSwap(poolName, asset string, amountIn, protocolFee uint64) {
	swapVolumeCounter.WithLabelValues(poolName, asset).Add(float64(amountIn))
	protocolFeesCounter.WithLabelValues(poolName, asset).Add(float64(protocolFee))
}
