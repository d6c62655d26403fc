package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/journal"
	"github.com/mark3labs/drapery/internal/measure"
	"github.com/mark3labs/drapery/internal/order"
	"github.com/mark3labs/drapery/internal/pricing"
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers the catalog, quote and order tools.
func (s *Server) registerTools() {
	sortKeys := make([]string, len(catalog.SortKeys))
	for i, k := range catalog.SortKeys {
		sortKeys[i] = string(k)
	}

	s.mcpServer.AddTool(
		mcp.NewTool("search-fabrics",
			mcp.WithDescription("Search the curtain fabric catalog by text and category"),
			mcp.WithString("query", mcp.Description("Case-insensitive text matched against name, description and material")),
			mcp.WithString("category", mcp.Description("Category name, or All"), mcp.Enum(s.catalog.Categories()...)),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum(sortKeys...)),
		),
		s.handleSearchFabrics,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("quote-curtains",
			mcp.WithDescription("Price made-to-measure curtains for a window in a catalog fabric"),
			mcp.WithString("fabric_id", mcp.Required(), mcp.Description("Catalog fabric id")),
			mcp.WithNumber("width", mcp.Required(), mcp.Description("Window width in cm"), mcp.Min(0)),
			mcp.WithNumber("height", mcp.Required(), mcp.Description("Window height in cm"), mcp.Min(0)),
		),
		s.handleQuote,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list-orders",
			mcp.WithDescription("List placed orders, newest first"),
			mcp.WithNumber("limit", mcp.Description("Maximum number of orders (default 10)"), mcp.Min(1)),
		),
		s.handleListOrders,
	)
}

// handleSearchFabrics returns matching fabrics, one per line.
func (s *Server) handleSearchFabrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sortKey, err := catalog.ParseSortKey(request.GetString("sort", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	listing := s.catalog.Search(catalog.Query{
		Text:     request.GetString("query", ""),
		Category: request.GetString("category", catalog.AllCategories),
		Sort:     sortKey,
	})
	if listing.Empty() {
		return mcp.NewToolResultText("No fabrics match"), nil
	}

	var b strings.Builder
	for _, it := range listing.Items {
		fmt.Fprintf(&b, "[%s] %s - %s, %s, %s per m²\n", it.ID, it.Name, it.Material, it.Category, pricing.Money(it.Price))
	}
	return mcp.NewToolResultText(strings.TrimSuffix(b.String(), "\n")), nil
}

// handleQuote validates the window size and returns the price breakdown.
func (s *Server) handleQuote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("fabric_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	item, err := s.catalog.Lookup(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	width := request.GetFloat("width", 0)
	height := request.GetFloat("height", 0)
	if !(width > 0) {
		return mcp.NewToolResultError(measure.MsgInvalidWidth), nil
	}
	if !(height > 0) {
		return mcp.NewToolResultError(measure.MsgInvalidHeight), nil
	}

	q := pricing.Quote(item.Price, width, height)
	var b strings.Builder
	fmt.Fprintf(&b, "%s for a %g × %g cm window\n", item.Name, width, height)
	fmt.Fprintf(&b, "Fabric: %s = %s\n", pricing.Area(q.Fabric.Area), pricing.Money(q.FabricCost))
	for _, l := range q.Services() {
		fmt.Fprintf(&b, "%s: %s\n", l.Label, pricing.Money(l.Amount))
	}
	fmt.Fprintf(&b, "Subtotal: %s\nTax: %s\nTotal: %s", pricing.Money(q.Subtotal), pricing.Money(q.Tax), pricing.Money(q.Total))
	return mcp.NewToolResultText(b.String()), nil
}

var errNoJournal = errors.New("order history is not available (journal disabled)")

// handleListOrders summarises recent orders from the journal.
func (s *Server) handleListOrders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.orders == nil {
		return mcp.NewToolResultError(errNoJournal.Error()), nil
	}
	orders, err := journal.Orders(ctx, s.orders)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading orders: %v", err)), nil
	}
	if len(orders) == 0 {
		return mcp.NewToolResultText("No orders placed yet"), nil
	}

	limit := int(request.GetFloat("limit", 10))
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}

	var b strings.Builder
	for _, o := range orders {
		b.WriteString(summary(o))
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(strings.TrimSuffix(b.String(), "\n")), nil
}

func summary(o order.Order) string {
	return fmt.Sprintf("%s  %s  %s  %g×%g cm  %s",
		o.Number, o.PlacedAt.Format("2006-01-02"), o.Item.Name,
		o.Measurements.Width, o.Measurements.Height, pricing.Money(o.Breakdown.Total))
}
