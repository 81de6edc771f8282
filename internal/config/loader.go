package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "PIXLENS"

// Defaults applied before any file, environment, or flag layer.
var defaults = map[string]any{
	"api.base_url":        "https://pixels.pythondiscord.com/",
	"api.token":           "",
	"api.user_agent":      "pixlens (Go/net-http)",
	"api.timeout":         10 * time.Second,
	"ratelimit.save_file": "",
	"store.driver":        "",
	"store.path":          "",
	"draw.order":          "column-major",
	"draw.loop_interval":  time.Second,
	"logging.level":       "info",
}

// Load builds the configuration. cfgFile, when non-empty, names an explicit
// config file; otherwise the standard locations are searched and a missing
// file is fine. The returned viper instance is also used for flag binds.
func Load(cfgFile string, v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pixlens"))
		}
		v.AddConfigPath(".")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}
