package wizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/pricing"
	"github.com/mark3labs/drapery/internal/tui"
	"github.com/mark3labs/drapery/internal/tui/theme"
)

// fabricRow adapts a catalog item to the ScrollList.
type fabricRow struct {
	item catalog.Item
}

func (r *fabricRow) ID() string { return r.item.ID }

func (r *fabricRow) Render(width int) string {
	price := pricing.Money(r.item.Price) + "/m²"
	name := r.item.Name
	detail := styles().Label.Render(r.item.Material + " · " + r.item.Category)

	gap := width - lipgloss.Width(name) - lipgloss.Width(detail) - lipgloss.Width(price) - 4
	if gap < 1 {
		return name + "  " + styles().Price.Render(price)
	}
	return name + "  " + detail + strings.Repeat(" ", gap) + styles().Price.Render(price)
}

func (r *fabricRow) Height() int { return 1 }

// CatalogStep is the fabric browser: a search box, category and sort
// cycling, and the filtered list.
type CatalogStep struct {
	load        func() (*catalog.Catalog, error)
	catalog     *catalog.Catalog
	listing     catalog.Listing
	categories  []string
	categoryIdx int
	restoreCat  string // category to select once the catalog loads
	sort        catalog.SortKey
	searchInput textinput.Model
	scrollList  *tui.ScrollList
	selectedIdx int
	loading     bool
	error       string
	spinner     spinner.Model
	width       int
	height      int
}

// NewCatalogStep creates the step. load runs in a command so a slow
// catalog file does not block the first frame.
func NewCatalogStep(load func() (*catalog.Catalog, error)) *CatalogStep {
	input := newInput("Type to filter fabrics...", 50)
	input.Prompt = "Search: "

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	list := tui.NewScrollList(60, 8)
	list.SetFocused(true)

	return &CatalogStep{
		load:        load,
		searchInput: input,
		scrollList:  list,
		spinner:     s,
		sort:        catalog.SortName,
		loading:     true,
		width:       60,
		height:      14,
	}
}

// Init starts loading the catalog.
func (c *CatalogStep) Init() tea.Cmd {
	return tea.Batch(
		c.fetchCatalog(),
		c.spinner.Tick,
		c.searchInput.Focus(),
	)
}

func (c *CatalogStep) fetchCatalog() tea.Cmd {
	load := c.load
	return func() tea.Msg {
		cat, err := load()
		if err != nil {
			return CatalogErrorMsg{Err: err}
		}
		return CatalogLoadedMsg{Catalog: cat}
	}
}

// SetSize updates the dimensions for the catalog step.
func (c *CatalogStep) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.searchInput.SetWidth(width - 10)
	// Search, filter line, blank lines, detail panel and hint bar take about 10 lines
	listHeight := height - 10
	if listHeight < 3 {
		listHeight = 3
	}
	c.scrollList.SetWidth(width)
	c.scrollList.SetHeight(listHeight)
	c.scrollList.ScrollToItem(c.selectedIdx)
}

// Query returns the current filter.
func (c *CatalogStep) Query() catalog.Query {
	q := catalog.Query{
		Text: c.searchInput.Value(),
		Sort: c.sort,
	}
	if c.categoryIdx < len(c.categories) {
		q.Category = c.categories[c.categoryIdx]
	}
	return q
}

// Restore applies a remembered sort and category. The search text is not
// restored.
func (c *CatalogStep) Restore(q catalog.Query) {
	if q.Sort != "" {
		c.sort = q.Sort
	}
	c.restoreCat = q.Category
}

// Listing returns the current search result.
func (c *CatalogStep) Listing() catalog.Listing { return c.listing }

// Update handles messages for the catalog step.
func (c *CatalogStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case CatalogLoadedMsg:
		c.loading = false
		c.error = ""
		c.catalog = msg.Catalog
		c.categories = msg.Catalog.Categories()
		c.categoryIdx = 0
		for i, cat := range c.categories {
			if cat == c.restoreCat {
				c.categoryIdx = i
			}
		}
		c.refilter()
		return nil

	case CatalogErrorMsg:
		c.loading = false
		c.error = msg.Err.Error()
		return nil

	case spinner.TickMsg:
		if c.loading {
			var cmd tea.Cmd
			c.spinner, cmd = c.spinner.Update(msg)
			return cmd
		}
		return nil
	}

	if c.loading {
		return nil
	}

	keyMsg, isKey := msg.(tea.KeyPressMsg)
	if c.error != "" {
		if isKey && keyMsg.String() == "r" {
			c.loading = true
			c.error = ""
			return tea.Batch(c.fetchCatalog(), c.spinner.Tick)
		}
		return nil
	}

	if isKey {
		switch keyMsg.String() {
		case "up", "ctrl+p":
			c.move(-1)
			return nil
		case "down", "ctrl+n":
			c.move(1)
			return nil
		case "pgup", "pgdown", "home", "end":
			return c.scrollList.Update(msg)
		case "ctrl+f":
			if len(c.categories) > 0 {
				c.categoryIdx = (c.categoryIdx + 1) % len(c.categories)
			}
			c.selectedIdx = 0
			c.refilter()
			return nil
		case "ctrl+s":
			c.sort = c.sort.Next()
			c.refilter()
			return nil
		case "enter":
			item, ok := c.Highlighted()
			if !ok {
				return nil
			}
			return func() tea.Msg {
				return ItemSelectedMsg{Item: item}
			}
		}
	}

	var cmd tea.Cmd
	before := c.searchInput.Value()
	c.searchInput, cmd = c.searchInput.Update(msg)
	if c.searchInput.Value() != before {
		c.selectedIdx = 0
		c.refilter()
	}
	return cmd
}

func (c *CatalogStep) move(delta int) {
	next := c.selectedIdx + delta
	if next < 0 || next >= len(c.listing.Items) {
		return
	}
	c.selectedIdx = next
	c.scrollList.SetSelected(next)
	c.scrollList.ScrollToItem(next)
}

// refilter re-runs the search and rebuilds the list.
func (c *CatalogStep) refilter() {
	if c.catalog == nil {
		return
	}
	c.listing = c.catalog.Search(c.Query())
	if c.selectedIdx >= len(c.listing.Items) {
		c.selectedIdx = 0
	}

	rows := make([]tui.ScrollItem, len(c.listing.Items))
	for i := range c.listing.Items {
		rows[i] = &fabricRow{item: c.listing.Items[i]}
	}
	c.scrollList.SetItems(rows)
	c.scrollList.SetSelected(c.selectedIdx)
	c.scrollList.ScrollToItem(c.selectedIdx)
}

// Highlighted returns the item under the cursor.
func (c *CatalogStep) Highlighted() (catalog.Item, bool) {
	if c.selectedIdx < 0 || c.selectedIdx >= len(c.listing.Items) {
		return catalog.Item{}, false
	}
	return c.listing.Items[c.selectedIdx], true
}

// View renders the catalog step.
func (c *CatalogStep) View() string {
	var b strings.Builder
	s := styles()

	if c.loading {
		b.WriteString(c.spinner.View())
		b.WriteString(" Loading fabrics...\n")
		return b.String()
	}

	if c.error != "" {
		b.WriteString(s.Error.Render("Error: " + c.error))
		b.WriteString("\n\n")
		b.WriteString(renderHintBar("r", "retry", "esc", "quit"))
		return b.String()
	}

	b.WriteString(c.searchInput.View())
	b.WriteString("\n")
	q := c.Query()
	category := q.Category
	if category == "" {
		category = catalog.AllCategories
	}
	b.WriteString(s.Label.Render("Category: ") + s.Text.Render(category))
	b.WriteString(s.Label.Render("   Sort: ") + s.Text.Render(q.Sort.Label()))
	b.WriteString("\n\n")

	if c.listing.Empty() {
		b.WriteString(s.Label.Render("No fabrics match"))
		b.WriteString("\n\n")
		b.WriteString(renderHintBar("type", "filter", "ctrl+f", "category", "esc", "quit"))
		return b.String()
	}

	b.WriteString(c.scrollList.View())
	b.WriteString("\n\n")

	if item, ok := c.Highlighted(); ok {
		b.WriteString(s.Selected.Render(item.Name))
		b.WriteString(s.Label.Render(fmt.Sprintf("  %s per m²", pricing.Money(item.Price))))
		b.WriteString("\n")
		b.WriteString(s.Text.Render(item.Description))
		b.WriteString("\n\n")
	}

	b.WriteString(renderHintBar(
		"type", "filter",
		"ctrl+f", "category",
		"ctrl+s", "sort",
		tui.KeyUpDown, "navigate",
		"enter", "select",
		"esc", "quit",
	))
	return b.String()
}

// CatalogLoadedMsg is sent when the catalog is ready.
type CatalogLoadedMsg struct {
	Catalog *catalog.Catalog
}

// CatalogErrorMsg is sent when the catalog cannot be loaded.
type CatalogErrorMsg struct {
	Err error
}

// ItemSelectedMsg is sent when a fabric is chosen.
type ItemSelectedMsg struct {
	Item catalog.Item
}
