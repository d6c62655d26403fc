package tui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/drapery/internal/tui/theme"
)

// ToastDuration is how long a notification stays on screen.
const ToastDuration = 3 * time.Second

// ToastLevel selects the toast colors.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastError
)

// ToastDismissMsg hides the toast it was scheduled for. Dismissals for a
// toast that has since been replaced are ignored.
type ToastDismissMsg struct {
	ID int
}

// Toast is a short notification drawn over the bottom-right corner.
type Toast struct {
	message string
	level   ToastLevel
	id      int
	visible bool
}

// NewToast creates a hidden toast.
func NewToast() *Toast {
	return &Toast{}
}

// Show displays an info toast and schedules its dismissal.
func (t *Toast) Show(msg string) tea.Cmd {
	return t.show(msg, ToastInfo)
}

// ShowError displays an error toast and schedules its dismissal.
func (t *Toast) ShowError(msg string) tea.Cmd {
	return t.show(msg, ToastError)
}

func (t *Toast) show(msg string, level ToastLevel) tea.Cmd {
	t.id++
	t.message = msg
	t.level = level
	t.visible = true
	id := t.id
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return ToastDismissMsg{ID: id}
	})
}

// Update handles dismissal.
func (t *Toast) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(ToastDismissMsg); ok && msg.ID == t.id {
		t.visible = false
		t.message = ""
	}
	return nil
}

// View renders the toast box, at most maxWidth cells wide. Empty when hidden.
func (t *Toast) View(maxWidth int) string {
	if !t.visible || t.message == "" {
		return ""
	}

	th := theme.Current()
	bg := th.Success
	if t.level == ToastError {
		bg = th.Error
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(th.BgBase)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Bold(true)

	content := style.Render(t.message)
	if maxWidth > 0 && lipgloss.Width(content) > maxWidth {
		content = style.Width(maxWidth).Render(t.message)
	}
	return content
}

// IsVisible reports whether a toast is showing.
func (t *Toast) IsVisible() bool {
	return t.visible
}

// Message returns the current message, empty when hidden.
func (t *Toast) Message() string {
	if !t.visible {
		return ""
	}
	return t.message
}

// Level returns the level of the current toast.
func (t *Toast) Level() ToastLevel {
	return t.level
}
