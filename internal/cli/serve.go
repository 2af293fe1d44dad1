package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/panegrid/internal/server"
	"github.com/matzehuels/panegrid/pkg/buildinfo"
	"github.com/matzehuels/panegrid/pkg/cache"
	"github.com/matzehuels/panegrid/pkg/registry"
)

// newServeCmd runs the HTTP session and edit API.
func newServeCmd() *cobra.Command {
	var addr, configPath, labels string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout editing HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg := defaultConfig()
			if configPath != "" {
				var err error
				if cfg, err = loadConfig(configPath); err != nil {
					return err
				}
			}
			if addr != "" {
				cfg.Addr = addr
			}

			reg := registry.New()
			for _, name := range splitList(labels) {
				if _, err := reg.Register(name, labelProducer(name)); err != nil {
					return err
				}
			}

			svgCache, err := newSVGCache(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			defer svgCache.Close()

			srv := server.New(reg,
				server.WithSessionTTL(cfg.SessionTTL.Duration),
				server.WithSVGCache(svgCache, cfg.Cache.TTL.Duration),
				server.WithTouchRatio(cfg.MergeTouchRatio),
			)

			logger.Info("starting server", "addr", cfg.Addr, "cache", cfg.Cache.Backend, "version", buildinfo.Version)
			return srv.ListenAndServe(cmd.Context(), cfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&labels, "labels", "", "comma-separated leaf names to serve with label producers")
	return cmd
}

func newSVGCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "file":
		dir := cfg.Dir
		if dir == "" {
			var err error
			if dir, err = defaultCacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cfg.URL)
	default:
		return cache.NewNullCache(), nil
	}
}

// defaultCacheDir follows the XDG convention (~/.cache/panegrid/).
func defaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "panegrid"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "panegrid"), nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
