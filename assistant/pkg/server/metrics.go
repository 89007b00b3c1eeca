package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InvokeRequestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitewise_assistant_http_invoke_request_errors_total",
		Help: "Total number of invoke requests rejected before reaching the router",
	},
		[]string{"reason"},
	)
)
