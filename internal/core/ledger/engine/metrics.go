package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/weisyn/rwaledger/pkg/types"
)

// 结果标签：成功为 ok，账本错误为错误码名称，其余为 internal
const (
	resultOK       = "ok"
	resultInternal = "internal"
)

var (
	ledgerCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rwa",
			Subsystem: "ledger",
			Name:      "calls_total",
			Help:      "Total number of ledger entry point calls",
		},
		[]string{"op", "result"},
	)

	ledgerCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rwa",
			Subsystem: "ledger",
			Name:      "call_duration_seconds",
			Help:      "Ledger entry point latency in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"op"},
	)

	ledgerAssets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rwa",
		Subsystem: "ledger",
		Name:      "assets",
		Help:      "Number of registered assets",
	})

	ledgerProposals = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rwa",
		Subsystem: "ledger",
		Name:      "proposals",
		Help:      "Number of created proposals",
	})
)

func init() {
	prometheus.MustRegister(ledgerCallsTotal, ledgerCallDuration, ledgerAssets, ledgerProposals)
}

func resultLabel(err error) string {
	if err == nil {
		return resultOK
	}
	if code, ok := types.CodeOf(err); ok {
		return code.String()
	}
	return resultInternal
}

func observe(op string, start time.Time, err error) {
	ledgerCallsTotal.WithLabelValues(op, resultLabel(err)).Inc()
	ledgerCallDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
