package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/pricing"
	"github.com/spf13/cobra"
)

var catalogFlags struct {
	file     string
	search   string
	category string
	sort     string
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the fabric catalog",
	Long: `List catalog fabrics, optionally filtered and sorted.

Search text matches name, description and material, ignoring case.`,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogFlags.file, "catalog", "", "Catalog YAML file (default: built-in fabrics)")
	catalogCmd.Flags().StringVarP(&catalogFlags.search, "search", "s", "", "Filter by text")
	catalogCmd.Flags().StringVarP(&catalogFlags.category, "category", "c", catalog.AllCategories, "Filter by category")
	catalogCmd.Flags().StringVar(&catalogFlags.sort, "sort", string(catalog.SortName), "Sort order: name, price-low or price-high")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogFile = catalogFlags.file
	}

	sortKey, err := catalog.ParseSortKey(catalogFlags.sort)
	if err != nil {
		return err
	}
	c, err := catalogLoader(cfg.CatalogFile)()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	listing := c.Search(catalog.Query{
		Text:     catalogFlags.search,
		Category: catalogFlags.category,
		Sort:     sortKey,
	})
	if listing.Empty() {
		fmt.Println("No fabrics match")
		return nil
	}

	t := newTable([]string{"ID", "Name", "Material", "Category", "Price per m²"}, 4)
	for _, it := range listing.Items {
		t.Row(it.ID, it.Name, it.Material, it.Category, pricing.Money(it.Price))
	}
	lipgloss.Println(t)
	return nil
}
