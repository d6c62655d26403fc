package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/mark3labs/drapery/internal/logger"
	"github.com/mark3labs/drapery/internal/tui/theme"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▀▄ █▀█ ▄▀█ █▀█ █▀▀ █▀█ █▄█"
	logoText2 = "█▄▀ █▀▄ █▀█ █▀▀ ██▄ █▀▄  █ "
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "drapery",
	Short: "Made-to-measure curtain shop in your terminal",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

drapery walks a customer through ordering made-to-measure curtains:
choose a fabric from the catalog, preview it in a room (or in AR when a
renderer is available), enter window measurements with a live fabric
calculator, then review the price breakdown and place the order.

Orders and wizard steps are journaled to an embedded NATS JetStream store.
The catalog and quotes are also available to MCP clients via 'drapery mcp'.`

	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(mcpCmd)
}
