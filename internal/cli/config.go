package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the TOML configuration for the serve command.
//
//	addr = ":8080"
//	session_ttl = "12h"
//	merge_touch_ratio = 0.9
//
//	[cache]
//	backend = "redis"          # none | file | redis
//	dir = "/var/cache/panegrid"
//	url = "redis://localhost:6379/0"
//	ttl = "1h"
type Config struct {
	Addr            string      `toml:"addr"`
	SessionTTL      duration    `toml:"session_ttl"`
	MergeTouchRatio float64     `toml:"merge_touch_ratio"`
	Cache           CacheConfig `toml:"cache"`
}

// CacheConfig selects and parameterizes the rendered-SVG cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	URL     string   `toml:"url"`
	TTL     duration `toml:"ttl"`
}

// duration parses TOML duration strings like "12h" or "90s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// defaultConfig is what serve runs with when no config file is given.
func defaultConfig() Config {
	return Config{
		Addr:       ":8080",
		SessionTTL: duration{12 * time.Hour},
		Cache: CacheConfig{
			Backend: "none",
			TTL:     duration{time.Hour},
		},
	}
}

// loadConfig reads the TOML file at path over the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	switch cfg.Cache.Backend {
	case "", "none", "file", "redis":
	default:
		return cfg, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	if cfg.MergeTouchRatio < 0 || cfg.MergeTouchRatio > 1 {
		return cfg, fmt.Errorf("merge_touch_ratio %v outside [0, 1]", cfg.MergeTouchRatio)
	}
	return cfg, nil
}
