package main

import (
	"context"
	"fmt"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/drapery/internal/journal"
	"github.com/mark3labs/drapery/internal/order"
	"github.com/mark3labs/drapery/internal/pricing"
	"github.com/spf13/cobra"
)

var ordersFlags struct {
	limit   int
	session string
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List placed orders from the journal",
	Long: `List orders recorded in the journal, newest first.

With --session, list only the orders of one wizard session along with
how far that session got.

The journal lives in the configured data directory. Stop any running
'drapery shop' first; the store is opened exclusively.`,
	RunE: runOrders,
}

func init() {
	ordersCmd.Flags().IntVarP(&ordersFlags.limit, "limit", "l", 20, "Maximum number of orders, 0 for all")
	ordersCmd.Flags().StringVar(&ordersFlags.session, "session", "", "Only show orders from this wizard session")
}

func runOrders(cmd *cobra.Command, args []string) error {
	if ordersFlags.limit < 0 {
		return fmt.Errorf("limit must be >= 0 (0 means all)")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var orders []order.Order
	if ordersFlags.session != "" {
		h, err := journal.LoadHistory(ctx, store.Stream, ordersFlags.session)
		if err != nil {
			return fmt.Errorf("failed to read session %s: %w", ordersFlags.session, err)
		}
		if h.Transitions == 0 && len(h.Orders) == 0 {
			return fmt.Errorf("no events recorded for session %s", ordersFlags.session)
		}
		fmt.Printf("Session %s: %d steps, last step %s\n\n", h.Session, h.Transitions, h.LastStep)
		orders = h.Orders
	} else {
		orders, err = journal.Orders(ctx, store.Stream)
		if err != nil {
			return fmt.Errorf("failed to read orders: %w", err)
		}
	}
	if len(orders) == 0 {
		fmt.Println("No orders placed yet")
		return nil
	}
	if ordersFlags.limit > 0 && len(orders) > ordersFlags.limit {
		orders = orders[:ordersFlags.limit]
	}

	t := newTable([]string{"Order", "Placed", "Fabric", "Window", "Total"}, 4)
	for _, o := range orders {
		t.Row(
			o.Number,
			o.PlacedAt.Local().Format("2006-01-02 15:04"),
			o.Item.Name,
			fmt.Sprintf("%g × %g cm", o.Measurements.Width, o.Measurements.Height),
			pricing.Money(o.Breakdown.Total),
		)
	}
	lipgloss.Println(t)
	return nil
}
