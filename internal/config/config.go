package config

import (
	"context"
	"time"

	"queuectl/internal/store"
)

const (
	DefaultMaxRetries   = 3
	DefaultBackoffBase  = 2
	DefaultPollInterval = 1 // seconds
)

// Config is a snapshot of the tunables read once at startup and passed
// into constructors, so behavior under a given configuration is
// reproducible.
type Config struct {
	MaxRetries   int
	BackoffBase  int
	PollInterval time.Duration
}

func Default() Config {
	return Config{
		MaxRetries:   DefaultMaxRetries,
		BackoffBase:  DefaultBackoffBase,
		PollInterval: DefaultPollInterval * time.Second,
	}
}

// Load reads the snapshot from the store's config table, falling back
// to defaults for missing or malformed values.
func Load(ctx context.Context, st *store.Store) Config {
	return Config{
		MaxRetries:   st.GetConfigInt(ctx, "max_retries", DefaultMaxRetries),
		BackoffBase:  st.GetConfigInt(ctx, "backoff_base", DefaultBackoffBase),
		PollInterval: time.Duration(st.GetConfigInt(ctx, "worker_poll_interval", DefaultPollInterval)) * time.Second,
	}
}
