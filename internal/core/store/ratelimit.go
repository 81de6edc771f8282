package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/pixlens/pixlens/internal/core"
)

// Load reads every persisted endpoint snapshot.
func (s *Store) Load(ctx context.Context) (map[string]core.RateLimitSnapshot, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT endpoint, remaining, request_limit, reset_seconds, cooldown_reset
		FROM rate_limits
		ORDER BY endpoint
	`)
	if err != nil {
		return nil, fmt.Errorf("load rate limits: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup

	snapshots := make(map[string]core.RateLimitSnapshot)
	for rows.Next() {
		var (
			endpoint string
			snap     core.RateLimitSnapshot
		)
		if err := rows.Scan(&endpoint, &snap.Remaining, &snap.Limit, &snap.Reset, &snap.CooldownReset); err != nil {
			return nil, fmt.Errorf("scan rate limit: %w", err)
		}
		snapshots[endpoint] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load rate limits: %w", err)
	}
	return snapshots, nil
}

// Save replaces the persisted mapping with the given one in a single
// transaction, so endpoints removed from the mapping are removed from the
// store too.
func (s *Store) Save(ctx context.Context, snapshots map[string]core.RateLimitSnapshot) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save rate limits: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM rate_limits`); err != nil {
		return fmt.Errorf("save rate limits: %w", err)
	}

	for endpoint, snap := range snapshots {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rate_limits (endpoint, remaining, request_limit, reset_seconds, cooldown_reset)
			VALUES (?, ?, ?, ?, ?)
		`, endpoint, snap.Remaining, snap.Limit, snap.Reset, snap.CooldownReset)
		if err != nil {
			return fmt.Errorf("store rate limit for %s: %w", endpoint, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save rate limits: %w", err)
	}
	return nil
}
