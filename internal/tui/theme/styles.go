package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style

	ModalContainer lipgloss.Style
	ModalTitle     lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	Label    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Price    lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Success  lipgloss.Style
	Info     lipgloss.Style

	Panel lipgloss.Style
}
