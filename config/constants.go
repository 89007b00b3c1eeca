package config

import "time"

// Environment variables.
const (
	EnvAWSRegion        = "AWS_REGION"
	EnvTZOffsetHours    = "ASSISTANT_TZ_OFFSET_HOURS"
	EnvQueryMaxResults  = "ASSISTANT_QUERY_MAX_RESULTS"
	EnvCacheTTL         = "ASSISTANT_CACHE_TTL"
	EnvVerbose          = "ASSISTANT_VERBOSE"
	EnvListenAddr       = "ASSISTANT_LISTEN_ADDR"
	EnvMetricsAddr      = "ASSISTANT_METRICS_ADDR"
	EnvLambdaRuntimeAPI = "AWS_LAMBDA_RUNTIME_API"
)

// Defaults.
const (
	DefaultTZOffsetHours   = -5.0
	DefaultQueryMaxResults = 20
	DefaultCacheTTL        = time.Duration(0)
	DefaultListenAddr      = ":8080"
	DefaultMetricsAddr     = ":2112"
)
