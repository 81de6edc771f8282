package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", viper.New())
	require.NoError(t, err)

	require.Equal(t, "https://pixels.pythondiscord.com/", cfg.API.BaseURL)
	require.Equal(t, 10*time.Second, cfg.API.Timeout)
	require.Equal(t, "column-major", cfg.Draw.Order)
	require.Equal(t, time.Second, cfg.Draw.LoopInterval)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Empty(t, cfg.API.Token)
	require.Empty(t, cfg.RateLimit.SaveFile)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
api:
  token: file-token
  timeout: 30s
ratelimit:
  save_file: /tmp/ratelimits.json
draw:
  order: row-major
  loop_interval: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path, viper.New())
	require.NoError(t, err)

	require.Equal(t, "file-token", cfg.API.Token)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, "/tmp/ratelimits.json", cfg.RateLimit.SaveFile)
	require.Equal(t, "row-major", cfg.Draw.Order)
	require.Equal(t, 2*time.Second, cfg.Draw.LoopInterval)

	// Unset keys keep their defaults.
	require.Equal(t, "https://pixels.pythondiscord.com/", cfg.API.BaseURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PIXLENS_API_TOKEN", "env-token")
	t.Setenv("PIXLENS_API_BASE_URL", "http://localhost:8080/")
	t.Setenv("PIXLENS_DRAW_ORDER", "row-major")

	cfg, err := Load("", viper.New())
	require.NoError(t, err)

	require.Equal(t, "env-token", cfg.API.Token)
	require.Equal(t, "http://localhost:8080/", cfg.API.BaseURL)
	require.Equal(t, "row-major", cfg.Draw.Order)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  token: file-token\n"), 0o644))
	t.Setenv("PIXLENS_API_TOKEN", "env-token")

	cfg, err := Load(path, viper.New())
	require.NoError(t, err)
	require.Equal(t, "env-token", cfg.API.Token)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), viper.New())
	require.Error(t, err)
}

func TestRequireToken(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.RequireToken())

	cfg.API.Token = "   "
	require.Error(t, cfg.RequireToken())

	cfg.API.Token = "token"
	require.NoError(t, cfg.RequireToken())
}
