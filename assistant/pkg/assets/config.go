package assets

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/malbeclabs/sitewise-assistant/assistant/pkg/sitewise"
)

const (
	defaultQueryMaxResults = 20
	defaultUTCOffset       = -5 * time.Hour
)

type Config struct {
	Logger *slog.Logger
	Store  sitewise.Store

	// Optional configuration.
	Clock           clockwork.Clock
	Location        *time.Location
	QueryMaxResults int32
	// Zero disables the lookup cache.
	CacheTTL time.Duration
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	if c.Store == nil {
		return errors.New("store is required")
	}
	if c.CacheTTL < 0 {
		return errors.New("cache ttl must not be negative")
	}

	// Optional configuration.
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Location == nil {
		c.Location = FixedOffset(defaultUTCOffset)
	}
	if c.QueryMaxResults <= 0 {
		c.QueryMaxResults = defaultQueryMaxResults
	}
	return nil
}

// FixedOffset returns a zone that is offset from UTC without daylight saving.
func FixedOffset(offset time.Duration) *time.Location {
	name := "UTC"
	if offset != 0 {
		name = fmt.Sprintf("UTC%+g", offset.Hours())
	}
	return time.FixedZone(name, int(offset.Seconds()))
}
