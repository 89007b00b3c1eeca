package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/action"
)

const (
	defaultReadHeaderTimeout = 5 * time.Second
	defaultShutdownTimeout   = 5 * time.Second
)

type Invoker interface {
	Handle(ctx context.Context, req *action.Request) *action.Response
}

type Config struct {
	Logger  *slog.Logger
	Invoker Invoker

	Version           string
	ListenAddr        string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration

	// Ready reports readiness on /readyz. Nil means always ready.
	Ready func() bool
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.Invoker == nil {
		return fmt.Errorf("invoker is required")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultReadHeaderTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	return nil
}
