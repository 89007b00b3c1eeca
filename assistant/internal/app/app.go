package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/action"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/assets"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/sitewise"
	"github.com/malbeclabs/sitewise-assistant/config"
)

// NewAdapter builds the asset adapter over a store.
func NewAdapter(log *slog.Logger, store sitewise.Store, cfg *config.Config) (*assets.Adapter, error) {
	adapter, err := assets.New(assets.Config{
		Logger:          log,
		Store:           store,
		Location:        assets.FixedOffset(cfg.TZOffset),
		QueryMaxResults: cfg.QueryMaxResults,
		CacheTTL:        cfg.CacheTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create asset adapter: %w", err)
	}
	return adapter, nil
}

// NewRouter wires a SiteWise client, the adapter and the action router.
// The client is created once and reused across invocations.
func NewRouter(ctx context.Context, log *slog.Logger, cfg *config.Config) (*action.Router, error) {
	client, err := sitewise.NewClientFromEnv(ctx, log, cfg.Region)
	if err != nil {
		return nil, err
	}
	adapter, err := NewAdapter(log, client, cfg)
	if err != nil {
		return nil, err
	}
	return action.NewRouter(log, adapter)
}
