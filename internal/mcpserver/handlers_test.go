package mcpserver

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/journal"
	"github.com/mark3labs/drapery/internal/measure"
	"github.com/mark3labs/drapery/internal/nats"
	"github.com/mark3labs/drapery/internal/order"
	"github.com/mark3labs/mcp-go/mcp"
)

// setupTestServer creates a server backed by the default catalog and a
// fresh journal.
func setupTestServer(t *testing.T) (*Server, *journal.Journal) {
	t.Helper()

	e, err := nats.Start(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("failed to start NATS: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })

	return New(catalog.MustDefault(), e.Stream, "test"), journal.New(e.JS, e.Stream)
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if tc, ok := result.Content[0].(mcp.TextContent); ok {
		return tc.Text
	}
	return ""
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func TestHandleSearchFabrics(t *testing.T) {
	srv := New(catalog.MustDefault(), nil, "test")
	ctx := context.Background()

	t.Run("all sorted by price", func(t *testing.T) {
		result, err := srv.handleSearchFabrics(ctx, call("search-fabrics", map[string]any{"sort": "price-low"}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("expected success, got error: %s", extractText(result))
		}
		lines := strings.Split(extractText(result), "\n")
		if len(lines) != 8 {
			t.Fatalf("expected 8 fabrics, got %d:\n%s", len(lines), extractText(result))
		}
		if !strings.Contains(lines[0], "Cotton Casual") {
			t.Errorf("expected cheapest fabric first, got %q", lines[0])
		}
	})

	t.Run("text and category", func(t *testing.T) {
		result, _ := srv.handleSearchFabrics(ctx, call("search-fabrics", map[string]any{
			"query":    "LINEN",
			"category": "Natural",
		}))
		text := extractText(result)
		if !strings.Contains(text, "[2] Linen Natural") {
			t.Errorf("expected linen in results, got: %s", text)
		}
		if strings.Contains(text, "\n") {
			t.Errorf("expected a single match, got: %s", text)
		}
	})

	t.Run("no match", func(t *testing.T) {
		result, _ := srv.handleSearchFabrics(ctx, call("search-fabrics", map[string]any{"query": "zzz"}))
		if got := extractText(result); got != "No fabrics match" {
			t.Errorf("expected empty message, got %q", got)
		}
	})

	t.Run("bad sort", func(t *testing.T) {
		result, _ := srv.handleSearchFabrics(ctx, call("search-fabrics", map[string]any{"sort": "colour"}))
		if !result.IsError {
			t.Error("expected error for unknown sort key")
		}
	})
}

func TestHandleQuote(t *testing.T) {
	srv := New(catalog.MustDefault(), nil, "test")
	ctx := context.Background()

	result, err := srv.handleQuote(ctx, call("quote-curtains", map[string]any{
		"fabric_id": "1",
		"width":     150.0,
		"height":    220.0,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := extractText(result)
	for _, want := range []string{"Silk Elegance", "7.50 m²", "$667.50", "Subtotal: $762.50", "Tax: $76.25", "Total: $838.75"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in quote:\n%s", want, text)
		}
	}

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing fabric", map[string]any{"width": 100.0, "height": 100.0}, "fabric_id"},
		{"unknown fabric", map[string]any{"fabric_id": "99", "width": 100.0, "height": 100.0}, "not found"},
		{"zero width", map[string]any{"fabric_id": "1", "width": 0.0, "height": 100.0}, measure.MsgInvalidWidth},
		{"negative height", map[string]any{"fabric_id": "1", "width": 100.0, "height": -5.0}, measure.MsgInvalidHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _ := srv.handleQuote(ctx, call("quote-curtains", tt.args))
			if !result.IsError {
				t.Fatalf("expected error result, got: %s", extractText(result))
			}
			if !strings.Contains(extractText(result), tt.want) {
				t.Errorf("expected %q in error, got %q", tt.want, extractText(result))
			}
		})
	}
}

func TestHandleListOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("journal disabled", func(t *testing.T) {
		srv := New(catalog.MustDefault(), nil, "test")
		result, _ := srv.handleListOrders(ctx, call("list-orders", nil))
		if !result.IsError {
			t.Error("expected error without a journal")
		}
	})

	srv, j := setupTestServer(t)

	result, _ := srv.handleListOrders(ctx, call("list-orders", nil))
	if got := extractText(result); got != "No orders placed yet" {
		t.Errorf("expected empty history, got %q", got)
	}

	item, _ := catalog.MustDefault().Lookup("3")
	m := measure.Measurements{Width: 120, Height: 200, RoomType: "bedroom", InstallationType: "wall"}
	for i, id := range []string{"OLD", "NEW"} {
		o, err := order.Placer{
			Now:    func() time.Time { return time.Date(2026, 3, 1+i, 9, 0, 0, 0, time.UTC) },
			NextID: func() string { return id },
		}.Place(&item, &m, order.Extras{})
		if err != nil {
			t.Fatalf("place: %v", err)
		}
		if err := j.RecordOrder(ctx, o); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	result, _ = srv.handleListOrders(ctx, call("list-orders", map[string]any{"limit": 1.0}))
	text := extractText(result)
	if !strings.HasPrefix(text, "CRT-NEW") {
		t.Errorf("expected newest order first, got %q", text)
	}
	if strings.Contains(text, "CRT-OLD") {
		t.Errorf("limit not applied: %q", text)
	}
	if !strings.Contains(text, "Velvet Royal") || !strings.Contains(text, "120×200 cm") {
		t.Errorf("unexpected summary: %q", text)
	}
}

func TestServer_StartStop(t *testing.T) {
	srv := New(catalog.MustDefault(), nil, "test")
	port, err := srv.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if port == 0 {
		t.Fatal("expected a port")
	}
	if _, err := srv.Start(context.Background()); err == nil {
		t.Error("expected error on second start")
	}
	if !strings.HasSuffix(srv.URL(), "/mcp") {
		t.Errorf("unexpected URL %q", srv.URL())
	}
	if err := srv.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
