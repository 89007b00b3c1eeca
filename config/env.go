package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrInvalidEnvironment = errors.New("invalid environment")
)

type Config struct {
	Region          string
	TZOffset        time.Duration
	QueryMaxResults int32
	CacheTTL        time.Duration
	Verbose         bool
	ListenAddr      string
	MetricsAddr     string
}

// LoadDotEnv loads a .env file from the working directory when one exists.
// Variables already set in the environment win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// FromEnv reads the assistant configuration from the environment, falling
// back to defaults for anything unset.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Region:          os.Getenv(EnvAWSRegion),
		TZOffset:        hours(DefaultTZOffsetHours),
		QueryMaxResults: DefaultQueryMaxResults,
		CacheTTL:        DefaultCacheTTL,
		ListenAddr:      DefaultListenAddr,
		MetricsAddr:     DefaultMetricsAddr,
	}

	if v := os.Getenv(EnvTZOffsetHours); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil || math.Abs(h) > 14 {
			return nil, fmt.Errorf("%w: %s must be an hour offset between -14 and 14, got %q", ErrInvalidEnvironment, EnvTZOffsetHours, v)
		}
		cfg.TZOffset = hours(h)
	}

	if v := os.Getenv(EnvQueryMaxResults); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidEnvironment, EnvQueryMaxResults, v)
		}
		cfg.QueryMaxResults = int32(n)
	}

	if v := os.Getenv(EnvCacheTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("%w: %s must be a non-negative duration, got %q", ErrInvalidEnvironment, EnvCacheTTL, v)
		}
		cfg.CacheTTL = d
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalidEnvironment, EnvVerbose, v)
		}
		cfg.Verbose = b
	}

	if v, ok := os.LookupEnv(EnvListenAddr); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv(EnvMetricsAddr); ok {
		cfg.MetricsAddr = v
	}

	return cfg, nil
}

// InLambda reports whether the process runs inside the Lambda runtime.
func InLambda() bool {
	return os.Getenv(EnvLambdaRuntimeAPI) != ""
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
