package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/drapery/internal/measure"
	"github.com/mark3labs/drapery/internal/pricing"
	"github.com/spf13/cobra"
)

var quoteFlags struct {
	file string
}

var quoteCmd = &cobra.Command{
	Use:   "quote <fabric-id> <width-cm> <height-cm>",
	Short: "Price curtains for a window",
	Long: `Print the price breakdown for curtains in a catalog fabric.

Fabric width is twice the window width and the drop adds a 30 cm hem
allowance. Making, installation and delivery are flat fees; tax is 10%.`,
	Example: "  drapery quote 1 150 220",
	Args:    cobra.ExactArgs(3),
	RunE:    runQuote,
}

func init() {
	quoteCmd.Flags().StringVar(&quoteFlags.file, "catalog", "", "Catalog YAML file (default: built-in fabrics)")
}

func runQuote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogFile = quoteFlags.file
	}

	c, err := catalogLoader(cfg.CatalogFile)()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	item, err := c.Lookup(args[0])
	if err != nil {
		return fmt.Errorf("fabric %q: %w", args[0], err)
	}
	width, ok := measure.ParseDimension(args[1])
	if !ok {
		return fmt.Errorf("%s: %q", measure.MsgInvalidWidth, args[1])
	}
	height, ok := measure.ParseDimension(args[2])
	if !ok {
		return fmt.Errorf("%s: %q", measure.MsgInvalidHeight, args[2])
	}

	q := pricing.Quote(item.Price, width, height)
	fmt.Printf("%s (%s per m²) for a %g × %g cm window\n", item.Name, pricing.Money(item.Price), width, height)
	fmt.Printf("Fabric: %g × %g cm = %s\n\n", q.Fabric.Width, q.Fabric.Drop, pricing.Area(q.Fabric.Area))

	t := newTable([]string{"Item", "Amount"}, 1)
	t.Row("Fabric ("+pricing.Area(q.Fabric.Area)+")", pricing.Money(q.FabricCost))
	for _, l := range q.Services() {
		t.Row(l.Label, pricing.Money(l.Amount))
	}
	t.Row("Subtotal", pricing.Money(q.Subtotal))
	t.Row(fmt.Sprintf("Tax (%d%%)", int(pricing.TaxRate*100)), pricing.Money(q.Tax))
	t.Row("Total", pricing.Money(q.Total))
	lipgloss.Println(t)
	return nil
}
