package wizard

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/drapery/internal/tui"
	"github.com/mark3labs/drapery/internal/tui/theme"
)

func styles() *theme.Styles { return theme.Current().S() }

// renderHintBar renders a hint bar with the given key-description pairs.
// Example: renderHintBar("↑↓", "navigate", "enter", "select", "esc", "back")
// Returns: "↑↓ navigate • enter select • esc back"
func renderHintBar(pairs ...string) string {
	return tui.RenderHintBar(pairs...)
}

// renderError renders an inline validation message.
func renderError(msg string) string {
	return styles().Error.Render("✗ " + msg)
}

// newInput creates a text input with the wizard's focused/blurred styles.
func newInput(placeholder string, width int) textinput.Model {
	t := theme.Current()
	c := lipgloss.Color

	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = ""
	input.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(c(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(c(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(c(t.Tertiary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(c(t.FgMuted)),
			Placeholder: lipgloss.NewStyle().Foreground(c(t.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(c(t.BgSurface2)),
		},
		Cursor: textinput.CursorStyle{
			Color: c(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	input.SetWidth(width)
	return input
}
