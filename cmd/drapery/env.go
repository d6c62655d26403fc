package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/config"
	"github.com/mark3labs/drapery/internal/logger"
	"github.com/mark3labs/drapery/internal/nats"
	"github.com/mark3labs/drapery/internal/tui/theme"
)

// loadConfig reads configuration and applies its logging settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	if err := theme.SetCurrent(cfg.Theme); err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(theme.Names(), ", "))
	}
	return cfg, nil
}

// catalogLoader returns the loader for the configured catalog file, or the
// built-in catalog when none is set.
func catalogLoader(path string) func() (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default
	}
	return func() (*catalog.Catalog, error) {
		return catalog.Load(path)
	}
}

// openStore starts the embedded journal store under the data directory.
func openStore(ctx context.Context, cfg *config.Config) (*nats.Embedded, error) {
	dir := filepath.Join(cfg.DataDir, "nats")
	e, err := nats.Start(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal in %s: %w", dir, err)
	}
	return e, nil
}
