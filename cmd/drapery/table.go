package main

import (
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/mark3labs/drapery/internal/tui/theme"
)

// newTable returns a table styled with the current theme. Columns listed in
// numeric are right aligned.
func newTable(headers []string, numeric ...int) *table.Table {
	t := theme.Current()
	right := map[int]bool{}
	for _, c := range numeric {
		right[c] = true
	}

	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Primary)).Padding(0, 1)
	cell := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)).Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgSurface2))).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cell
			if row == table.HeaderRow {
				s = header
			}
			if right[col] {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
}
