package action

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sitewise_assistant_build_info",
		Help: "Build information of the sitewise assistant",
	},
		[]string{"version", "commit", "date"},
	)

	InvocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitewise_assistant_action_invocations_total",
		Help: "Total number of action invocations",
	},
		[]string{"path", "status"},
	)

	InvocationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sitewise_assistant_action_invocation_duration_seconds",
		Help:    "Duration of action invocations",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 0.01s to ~41s
	},
		[]string{"path"},
	)
)
