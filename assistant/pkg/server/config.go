package server

import (
	"context"
	"errors"
	"time"

	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/action"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxBodySize     = 1 << 20 // 1 MiB

	InvokePath  = "/invoke"
	HealthzPath = "/healthz"
)

type Invoker interface {
	Handle(ctx context.Context, req *action.Request) *action.Response
}

type Config struct {
	Invoker Invoker

	// Optional configuration.
	ShutdownTimeout time.Duration
	MaxBodySize     int64
}

func (c *Config) Validate() error {
	if c.Invoker == nil {
		return errors.New("invoker is required")
	}

	// Optional configuration.
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = defaultMaxBodySize
	}
	return nil
}
