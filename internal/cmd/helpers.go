package cmd

import (
	"context"
	"net/http"
	"strings"

	"github.com/pixlens/pixlens/internal/core/client"
	"github.com/pixlens/pixlens/internal/core/engine"
	"github.com/pixlens/pixlens/internal/core/store"
	"github.com/pixlens/pixlens/internal/observability"
)

// openSnapshotStore builds the configured limiter snapshot store: the libsql
// store when store.path is set, the JSON save file when ratelimit.save_file
// is set, or none. The returned closer is a no-op for file stores.
func openSnapshotStore(ctx context.Context) (engine.SnapshotStore, func(), error) {
	if path := strings.TrimSpace(cfg.Store.Path); path != "" {
		db, err := store.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	}

	if path := strings.TrimSpace(cfg.RateLimit.SaveFile); path != "" {
		return &store.FileStore{Path: path}, func() {}, nil
	}
	return nil, func() {}, nil
}

// newClient builds the API client with its rate limiter and configured
// snapshot store.
func newClient(ctx context.Context) (*client.Client, func(), error) {
	snapshots, closeStore, err := openSnapshotStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts := []engine.Option{engine.WithLogger(observability.CLILogger)}
	if snapshots != nil {
		opts = append(opts, engine.WithStore(ctx, snapshots))
	}

	c := &client.Client{
		BaseURL:    cfg.API.BaseURL,
		Token:      cfg.API.Token,
		UserAgent:  cfg.API.UserAgent,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Limiter:    engine.NewRateLimiter(opts...),
		Logger:     observability.CLILogger,
	}
	return c, closeStore, nil
}
