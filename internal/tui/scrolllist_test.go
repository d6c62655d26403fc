package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

type textRow struct {
	id    string
	lines int
}

func (r textRow) ID() string { return r.id }

func (r textRow) Render(width int) string {
	out := make([]string, r.lines)
	for i := range out {
		out[i] = r.id
	}
	return strings.Join(out, "\n")
}

func (r textRow) Height() int { return r.lines }

func rows(n int) []ScrollItem {
	items := make([]ScrollItem, n)
	for i := range items {
		items[i] = textRow{id: fmt.Sprintf("row-%02d", i), lines: 1}
	}
	return items
}

func TestScrollList_Empty(t *testing.T) {
	t.Parallel()

	list := NewScrollList(40, 5)
	require.Equal(t, "", list.View())
	require.Equal(t, -1, list.SelectedIdx())
	require.Equal(t, 0, list.Len())
}

func TestScrollList_RendersWindow(t *testing.T) {
	t.Parallel()

	list := NewScrollList(40, 3)
	list.SetItems(rows(10))

	lines := strings.Split(ansi.Strip(list.View()), "\n")
	require.Equal(t, []string{"  row-00", "  row-01", "  row-02"}, lines)
}

func TestScrollList_Selection(t *testing.T) {
	t.Parallel()

	list := NewScrollList(40, 3)
	list.SetItems(rows(10))
	list.SetSelected(1)
	require.Equal(t, 1, list.SelectedIdx())
	require.Contains(t, ansi.Strip(list.View()), "▸ row-01")

	list.SetSelected(42)
	require.Equal(t, -1, list.SelectedIdx(), "out of range clears the selection")

	list.SetSelected(9)
	list.SetItems(rows(4))
	require.Equal(t, -1, list.SelectedIdx(), "shrinking the list drops a stale selection")
}

func TestScrollList_ScrollToItem(t *testing.T) {
	t.Parallel()

	list := NewScrollList(40, 3)
	list.SetItems(rows(10))

	list.ScrollToItem(5)
	lines := strings.Split(ansi.Strip(list.View()), "\n")
	require.Equal(t, "  row-03", lines[0], "window ends at the target")
	require.Equal(t, "  row-05", lines[2])

	// Already visible: no movement.
	list.ScrollToItem(4)
	require.Equal(t, "  row-03", strings.Split(ansi.Strip(list.View()), "\n")[0])

	list.ScrollToItem(1)
	require.Equal(t, "  row-01", strings.Split(ansi.Strip(list.View()), "\n")[0])

	list.ScrollToItem(99)
	require.Equal(t, "  row-01", strings.Split(ansi.Strip(list.View()), "\n")[0])
}

func TestScrollList_MultiLineItems(t *testing.T) {
	t.Parallel()

	list := NewScrollList(40, 4)
	list.SetItems([]ScrollItem{
		textRow{id: "a", lines: 2},
		textRow{id: "b", lines: 2},
		textRow{id: "c", lines: 2},
	})

	list.ScrollToItem(2)
	lines := strings.Split(ansi.Strip(list.View()), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "  b", lines[0])
	require.Equal(t, "c", lines[3])
}

func TestScrollList_PagingKeys(t *testing.T) {
	t.Parallel()

	list := NewScrollList(40, 3)
	list.SetItems(rows(10))

	// Unfocused lists ignore keys.
	list.Update(tea.KeyPressMsg{Code: tea.KeyPgDown})
	require.True(t, strings.HasPrefix(ansi.Strip(list.View()), "  row-00"))

	list.SetFocused(true)
	list.Update(tea.KeyPressMsg{Code: tea.KeyPgDown})
	require.True(t, strings.HasPrefix(ansi.Strip(list.View()), "  row-03"))

	list.Update(tea.KeyPressMsg{Code: tea.KeyEnd})
	require.True(t, strings.HasPrefix(ansi.Strip(list.View()), "  row-09"))

	list.Update(tea.KeyPressMsg{Code: tea.KeyHome})
	require.True(t, strings.HasPrefix(ansi.Strip(list.View()), "  row-00"))

	list.Update(tea.KeyPressMsg{Code: tea.KeyPgUp})
	require.True(t, strings.HasPrefix(ansi.Strip(list.View()), "  row-00"))
}
