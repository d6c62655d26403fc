package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/drapery/internal/mcpserver"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"
)

var mcpFlags struct {
	file      string
	http      bool
	noJournal bool
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the catalog and quotes over MCP",
	Long: `Serve the fabric catalog, quoting and order history as MCP tools.

Tools: search-fabrics, quote-curtains and list-orders. By default the server
speaks MCP over stdio; use --http to listen on a local port instead.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpFlags.file, "catalog", "", "Catalog YAML file (default: built-in fabrics)")
	mcpCmd.Flags().BoolVar(&mcpFlags.http, "http", false, "Serve streamable HTTP on 127.0.0.1 instead of stdio")
	mcpCmd.Flags().BoolVar(&mcpFlags.noJournal, "no-journal", false, "Do not open the journal (list-orders is unavailable)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogFile = mcpFlags.file
	}

	c, err := catalogLoader(cfg.CatalogFile)()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var orders jetstream.Stream
	if cfg.Journal && !mcpFlags.noJournal {
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		orders = store.Stream
	}

	srv := mcpserver.New(c, orders, version)
	if !mcpFlags.http {
		return srv.ServeStdio()
	}

	if _, err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	fmt.Fprintf(os.Stderr, "MCP server listening on %s\n", srv.URL())
	<-ctx.Done()
	return srv.Stop()
}
