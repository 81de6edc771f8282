package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixlens/pixlens/internal/core"
)

// FileStore persists limiter snapshots as a flat JSON document mapping
// endpoint name to its quota fields. The format matches the save files of
// earlier clients, so they can be carried over directly.
type FileStore struct {
	Path string
}

// Load reads the save file. A missing file is not an error: the limiter
// simply starts empty.
func (s *FileStore) Load(_ context.Context) (map[string]core.RateLimitSnapshot, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read rate limit save file: %w", err)
	}

	snapshots := make(map[string]core.RateLimitSnapshot)
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, fmt.Errorf("parse rate limit save file: %w", err)
	}
	return snapshots, nil
}

// Save rewrites the document. Written via a temp file and rename so a crash
// mid-write cannot truncate the previous state.
func (s *FileStore) Save(_ context.Context, snapshots map[string]core.RateLimitSnapshot) error {
	data, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rate limit snapshots: %w", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".ratelimits-*.json")
	if err != nil {
		return fmt.Errorf("write rate limit save file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write rate limit save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write rate limit save file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write rate limit save file: %w", err)
	}
	return nil
}
