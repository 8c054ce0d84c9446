package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	buildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rsspot_pricing_build_duration_seconds",
			Help:    "Duration of pricing recommendation builds in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	buildTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsspot_pricing_build_total",
			Help: "Total number of pricing recommendation builds by outcome",
		},
		[]string{"status"},
	)

	strategyInfeasibleTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rsspot_pricing_strategy_infeasible_total",
			Help: "Total number of per-strategy budget infeasibility outcomes",
		},
		[]string{"strategy"},
	)
)
