package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/drapery/internal/tui/theme"
)

// ScrollItem is a single row in a ScrollList.
type ScrollItem interface {
	// ID returns the unique identifier for this item.
	ID() string
	// Render returns the rendered string representation at the given width.
	Render(width int) string
	// Height returns the number of lines this item occupies.
	Height() int
}

// ScrollList is a lazy-rendering list that only renders the items inside
// its window, with an optional selected row.
type ScrollList struct {
	items       []ScrollItem
	offset      int // index of the first visible item
	width       int
	height      int // visible lines
	focused     bool
	selectedIdx int // -1 = no selection
}

// NewScrollList creates a new ScrollList with the given width and height.
func NewScrollList(width, height int) *ScrollList {
	return &ScrollList{
		width:       width,
		height:      height,
		selectedIdx: -1,
	}
}

// SetItems replaces all items in the list.
func (s *ScrollList) SetItems(items []ScrollItem) {
	s.items = items
	if s.selectedIdx >= len(items) {
		s.selectedIdx = -1
	}
	s.clampOffset()
}

// Len returns the number of items.
func (s *ScrollList) Len() int { return len(s.items) }

// SetWidth updates the viewport width.
func (s *ScrollList) SetWidth(width int) {
	s.width = width
}

// SetHeight updates the viewport height.
func (s *ScrollList) SetHeight(height int) {
	s.height = height
	s.clampOffset()
}

// SetFocused sets the focus state of the list.
func (s *ScrollList) SetFocused(focused bool) {
	s.focused = focused
}

// SetSelected sets the selected item index. Pass -1 to clear selection.
func (s *ScrollList) SetSelected(idx int) {
	if idx < -1 || idx >= len(s.items) {
		s.selectedIdx = -1
	} else {
		s.selectedIdx = idx
	}
}

// SelectedIdx returns the current selected item index (-1 if no selection).
func (s *ScrollList) SelectedIdx() int {
	return s.selectedIdx
}

// ScrollToItem moves the window the minimum distance needed to show idx.
func (s *ScrollList) ScrollToItem(idx int) {
	if idx < 0 || idx >= len(s.items) {
		return
	}
	if idx < s.offset {
		s.offset = idx
		return
	}
	// Walk back from idx until the window is full.
	lines := 0
	first := idx
	for i := idx; i >= 0; i-- {
		h := s.itemHeight(i)
		if lines+h > s.height && i < idx {
			break
		}
		lines += h
		first = i
	}
	if first > s.offset {
		s.offset = first
	}
}

// View returns the rendered view of visible items.
func (s *ScrollList) View() string {
	if len(s.items) == 0 {
		return ""
	}

	sel := theme.Current().S().Selected
	var lines []string
	for i := s.offset; i < len(s.items) && len(lines) < s.height; i++ {
		rendered := s.items[i].Render(s.width - 2)
		if i == s.selectedIdx {
			rendered = sel.Render("▸ ") + rendered
		} else {
			rendered = "  " + rendered
		}
		lines = append(lines, strings.Split(rendered, "\n")...)
	}
	if len(lines) > s.height {
		lines = lines[:s.height]
	}
	return strings.Join(lines, "\n")
}

// Update handles paging keys when the list is focused.
func (s *ScrollList) Update(msg tea.Msg) tea.Cmd {
	if !s.focused {
		return nil
	}
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "pgup":
			s.offset -= s.height
		case "pgdown":
			s.offset += s.height
		case "home":
			s.offset = 0
		case "end":
			s.offset = len(s.items) - 1
		}
		s.clampOffset()
	}
	return nil
}

func (s *ScrollList) itemHeight(i int) int {
	h := s.items[i].Height()
	if h == 0 {
		s.items[i].Render(s.width)
		h = s.items[i].Height()
	}
	if h < 1 {
		h = 1
	}
	return h
}

// clampOffset keeps the window inside the list.
func (s *ScrollList) clampOffset() {
	if s.offset >= len(s.items) {
		s.offset = len(s.items) - 1
	}
	if s.offset < 0 {
		s.offset = 0
	}
}
