package wizard

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/measure"
	"github.com/mark3labs/drapery/internal/order"
	"github.com/mark3labs/drapery/internal/tui"
)

// SummaryStep shows the quote, places the order and then the confirmation.
type SummaryStep struct {
	item     catalog.Item
	measures measure.Measurements
	extras   order.Extras
	placed   *order.Order
	hookOut  string
	viewport viewport.Model
	buttons  *ButtonBar
	width    int
	height   int
}

// NewSummaryStep creates the summary for a complete selection.
func NewSummaryStep(item catalog.Item, m measure.Measurements, extras order.Extras) *SummaryStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(12),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	s := &SummaryStep{
		item:     item,
		measures: m,
		extras:   extras,
		viewport: vp,
		buttons:  NewButtonBar(nil),
		width:    60,
		height:   16,
	}
	s.refresh()
	return s
}

// Init initializes the summary step.
func (s *SummaryStep) Init() tea.Cmd {
	return nil
}

// SetSize updates the dimensions for the summary step.
func (s *SummaryStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.SetWidth(width)
	// Reserve space for the button bar and hint bar
	vpHeight := height - 4
	if vpHeight < 5 {
		vpHeight = 5
	}
	s.viewport.SetHeight(vpHeight)
	s.buttons.SetWidth(width)
	s.refresh()
}

// Placed returns the placed order, or nil before placement.
func (s *SummaryStep) Placed() *order.Order { return s.placed }

// SetPlaced switches the view to the confirmation.
func (s *SummaryStep) SetPlaced(o order.Order) {
	s.placed = &o
	s.refresh()
	s.viewport.GotoTop()
}

// refresh re-renders the markdown for the current state and width.
func (s *SummaryStep) refresh() {
	var md string
	if s.placed != nil {
		md = s.placed.Markdown()
	} else {
		md = order.QuoteMarkdown(s.item, s.measures, s.extras)
	}
	content := tui.RenderMarkdown(md, s.width)
	if s.hookOut != "" {
		content += "\n\n" + styles().Label.Render(s.hookOut)
	}
	s.viewport.SetContent(content)
}

// Update handles messages for the summary step.
func (s *SummaryStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case HooksRanMsg:
		if msg.Output != "" {
			s.hookOut = msg.Output
			s.refresh()
		}
		return nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			if s.placed != nil {
				return func() tea.Msg { return StartOverMsg{} }
			}
			item, m, extras := s.item, s.measures, s.extras
			return func() tea.Msg {
				return PlaceOrderMsg{Item: item, Measurements: m, Extras: extras}
			}
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// View renders the summary step.
func (s *SummaryStep) View() string {
	var b strings.Builder
	b.WriteString(s.viewport.View())
	b.WriteString("\n\n")

	if s.placed != nil {
		s.buttons.buttons = []Button{{Label: "Start Over", State: ButtonFocused}}
		b.WriteString(s.buttons.Render())
		b.WriteString("\n")
		b.WriteString(renderHintBar(tui.KeyUpDownJK, "scroll", tui.KeyPgUpDown, "page", tui.KeyEnter, "start over", tui.KeyCtrlC, "quit"))
		return b.String()
	}

	s.buttons.buttons = CreateBackNextButtons(true, true, "Place Order")
	b.WriteString(s.buttons.Render())
	b.WriteString("\n")
	b.WriteString(renderHintBar(tui.KeyUpDownJK, "scroll", tui.KeyPgUpDown, "page", tui.KeyEnter, "place order", tui.KeyEsc, "back"))
	return b.String()
}

// PlaceOrderMsg asks the wizard to place the order shown.
type PlaceOrderMsg struct {
	Item         catalog.Item
	Measurements measure.Measurements
	Extras       order.Extras
}

// StartOverMsg asks the wizard to restart after a placed order.
type StartOverMsg struct{}

// HooksRanMsg carries the output of order hooks.
type HooksRanMsg struct {
	Output string
}
