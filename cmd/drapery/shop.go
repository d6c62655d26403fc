package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/drapery/internal/config"
	"github.com/mark3labs/drapery/internal/hooks"
	"github.com/mark3labs/drapery/internal/journal"
	"github.com/mark3labs/drapery/internal/logger"
	"github.com/mark3labs/drapery/internal/metrics"
	"github.com/mark3labs/drapery/internal/nats"
	"github.com/mark3labs/drapery/internal/preview"
	"github.com/mark3labs/drapery/internal/pricing"
	"github.com/mark3labs/drapery/internal/state"
	"github.com/mark3labs/drapery/internal/tui/wizard"
	"github.com/spf13/cobra"
)

var shopFlags struct {
	catalog     string
	metricsAddr string
	noAR        bool
	noJournal   bool
}

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Run the curtain ordering wizard",
	Long: `Run the full-screen ordering wizard.

The wizard has four steps: choose a fabric, preview it, enter your window
measurements and review the order. Press esc to go back a step and ctrl+c
to quit at any time.`,
	RunE: runShop,
}

func init() {
	shopCmd.Flags().StringVar(&shopFlags.catalog, "catalog", "", "Catalog YAML file (default: built-in fabrics)")
	shopCmd.Flags().StringVar(&shopFlags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	shopCmd.Flags().BoolVar(&shopFlags.noAR, "no-ar", false, "Disable the AR preview")
	shopCmd.Flags().BoolVar(&shopFlags.noJournal, "no-journal", false, "Do not journal orders and wizard steps")
}

func runShop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !config.Exists() {
		logger.Info("No config file found, using defaults (run 'drapery setup' to create one)")
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogFile = shopFlags.catalog
	}
	if cmd.Flags().Changed("metrics-addr") {
		cfg.MetricsAddr = shopFlags.metricsAddr
	}
	if shopFlags.noAR {
		cfg.AR.Enabled = false
	}
	if shopFlags.noJournal {
		cfg.Journal = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	prefs := state.Load(cfg.DataDir)
	svc := wizard.Services{
		LoadCatalog: catalogLoader(cfg.CatalogFile),
		Browse:      prefs.Query(),
		AR:          newARSession(cfg.AR),
		WorkDir:     workDir,
		CaptureDir:  cfg.CaptureDir,
	}

	hooksCfg, err := hooks.LoadConfig(workDir)
	if err != nil {
		return fmt.Errorf("failed to load hooks: %w", err)
	}
	svc.Hooks = hooksCfg

	var store *nats.Embedded
	if cfg.Journal {
		store, err = openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("Closing journal: %v", err)
			}
		}()
		svc.Journal = journal.New(store.JS, store.Stream)
		logger.Info("Journaling session %s", svc.Journal.Session())
	}

	if cfg.MetricsAddr != "" {
		reg := metrics.NewRegistry()
		addr := cfg.MetricsAddr
		go func() {
			if err := reg.Serve(ctx, addr); err != nil {
				logger.Error("Metrics server on %s failed: %v", addr, err)
			}
		}()
		svc.Metrics = reg
	}

	result, err := wizard.RunWizard(svc)
	if err != nil {
		return err
	}

	prefs.Remember(result.Browse)
	if err := state.Save(cfg.DataDir, prefs); err != nil {
		logger.Warn("Saving preferences: %v", err)
	}

	for _, o := range result.Orders {
		fmt.Printf("Order %s placed: %s, total %s\n", o.Number, o.Item.Name, pricing.Money(o.Breakdown.Total))
	}
	if svc.Journal != nil {
		h, err := journal.LoadHistory(ctx, store.Stream, svc.Journal.Session())
		if err != nil {
			logger.Warn("Reading session history: %v", err)
		} else if h.Transitions > 0 {
			fmt.Printf("Session %s: %d steps journaled (drapery orders --session %s)\n", h.Session, h.Transitions, h.Session)
		}
	}
	return nil
}

// newARSession builds the AR session, or nil when AR is turned off. A
// renderer that cannot start still yields a session so the preview can say
// why.
func newARSession(c config.ARConfig) *preview.Session {
	if !c.Enabled {
		return nil
	}
	var r preview.AssetRenderer = preview.NewFileRenderer()
	if len(c.Swatches) == 0 {
		r = preview.Unavailable{Reason: preview.ErrNoSwatches.Error()}
	} else if _, err := os.Stat(c.ModelPath); errors.Is(err, os.ErrNotExist) {
		r = preview.Unavailable{Reason: "curtain model not found at " + c.ModelPath}
	}
	return preview.NewSession(r, preview.Assets{
		Model:    c.ModelPath,
		Target:   c.TargetPath,
		Swatches: c.Swatches,
		FPS:      c.FPS,
	})
}
