// Package order turns a completed wizard into a placed order.
package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/measure"
	"github.com/mark3labs/drapery/internal/pricing"
	"github.com/rs/xid"
)

// NumberPrefix starts every order number.
const NumberPrefix = "CRT-"

// Timeline after an order is placed, in business days.
const (
	ProductionDaysMin = 5
	ProductionDaysMax = 7
	DeliveryDaysMin   = 2
	DeliveryDaysMax   = 3
)

var (
	// ErrIncomplete is returned when an order is placed without a fabric or
	// measurements.
	ErrIncomplete = errors.New("order is missing fabric or measurements")
)

// Extras are the optional intake choices that travel with the order but do
// not affect price.
type Extras struct {
	Heading string `json:"heading,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Order is a placed order. It is immutable once created.
type Order struct {
	Number       string               `json:"number"`
	Item         catalog.Item         `json:"item"`
	Measurements measure.Measurements `json:"measurements"`
	Extras       Extras               `json:"extras"`
	Breakdown    pricing.Breakdown    `json:"breakdown"`
	PlacedAt     time.Time            `json:"placed_at"`
}

// Placer creates orders. The zero value uses the wall clock and xid.
type Placer struct {
	Now    func() time.Time
	NextID func() string
}

// Place prices and numbers a new order.
func (p Placer) Place(item *catalog.Item, m *measure.Measurements, extras Extras) (Order, error) {
	if item == nil || m == nil {
		return Order{}, ErrIncomplete
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	return Order{
		Number:       NumberPrefix + p.id(),
		Item:         *item,
		Measurements: *m,
		Extras:       extras,
		Breakdown:    pricing.Quote(item.Price, m.Width, m.Height),
		PlacedAt:     now().UTC(),
	}, nil
}

func (p Placer) id() string {
	if p.NextID != nil {
		return p.NextID()
	}
	return strings.ToUpper(xid.New().String())
}

// Place uses the default Placer.
func Place(item *catalog.Item, m *measure.Measurements, extras Extras) (Order, error) {
	return Placer{}.Place(item, m, extras)
}

// Markdown renders the order confirmation.
func (o Order) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Order confirmed\n\nOrder number: **%s**\n\n", o.Number)
	b.WriteString(QuoteMarkdown(o.Item, o.Measurements, o.Extras))
	b.WriteString("\n## What happens next\n\n")
	fmt.Fprintf(&b, "1. **Production**: %d-%d business days\n", ProductionDaysMin, ProductionDaysMax)
	fmt.Fprintf(&b, "2. **Delivery**: %d-%d business days after production\n", DeliveryDaysMin, DeliveryDaysMax)
	b.WriteString("3. **Installation**: our team will contact you to schedule a visit\n")
	return b.String()
}

// QuoteMarkdown renders the fabric, measurements and price breakdown.
func QuoteMarkdown(item catalog.Item, m measure.Measurements, extras Extras) string {
	q := pricing.Quote(item.Price, m.Width, m.Height)
	var b strings.Builder

	fmt.Fprintf(&b, "## %s\n\n%s\n\n", item.Name, item.Description)
	fmt.Fprintf(&b, "- Material: %s\n- Category: %s\n- Price: %s per m²\n\n", item.Material, item.Category, pricing.Money(item.Price))

	b.WriteString("## Measurements\n\n")
	fmt.Fprintf(&b, "- Window: %s × %s cm\n", trimFloat(m.Width), trimFloat(m.Height))
	fmt.Fprintf(&b, "- Room: %s\n", measure.LabelOf(measure.RoomTypes, m.RoomType))
	fmt.Fprintf(&b, "- Installation: %s\n", measure.LabelOf(measure.InstallationTypes, m.InstallationType))
	if extras.Heading != "" {
		fmt.Fprintf(&b, "- Heading: %s\n", measure.LabelOf(measure.HeadingStyles, extras.Heading))
	}
	fmt.Fprintf(&b, "- Fabric needed: %s (%s × %s cm)\n", pricing.Area(q.Fabric.Area), trimFloat(q.Fabric.Width), trimFloat(q.Fabric.Drop))
	if extras.Notes != "" {
		fmt.Fprintf(&b, "\n> %s\n", strings.ReplaceAll(strings.TrimSpace(extras.Notes), "\n", "\n> "))
	}

	b.WriteString("\n## Price breakdown\n\n| Item | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Fabric (%s) | %s |\n", pricing.Area(q.Fabric.Area), pricing.Money(q.FabricCost))
	for _, l := range q.Services() {
		fmt.Fprintf(&b, "| %s | %s |\n", l.Label, pricing.Money(l.Amount))
	}
	fmt.Fprintf(&b, "| Subtotal | %s |\n", pricing.Money(q.Subtotal))
	fmt.Fprintf(&b, "| Tax (%d%%) | %s |\n", int(pricing.TaxRate*100), pricing.Money(q.Tax))
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", pricing.Money(q.Total))
	return b.String()
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
