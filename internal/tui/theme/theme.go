package theme

import (
	"fmt"
	"sort"
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // lipgloss.Color takes the hex string directly
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	return &Styles{
		HeaderTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),

		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Tertiary)).
			Background(c(t.BgBase)).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true).
			Align(lipgloss.Center),

		HintKey:       lipgloss.NewStyle().Foreground(c(t.FgSubtle)).Bold(true),
		HintDesc:      lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().Foreground(c(t.BgSurface2)),

		Label:    lipgloss.NewStyle().Foreground(c(t.FgMuted)),
		Text:     lipgloss.NewStyle().Foreground(c(t.FgBase)),
		Muted:    lipgloss.NewStyle().Foreground(c(t.BgSurface2)),
		Selected: lipgloss.NewStyle().Foreground(c(t.Primary)).Bold(true),
		Price:    lipgloss.NewStyle().Foreground(c(t.Success)).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(c(t.Error)),
		Warning:  lipgloss.NewStyle().Foreground(c(t.Warning)),
		Success:  lipgloss.NewStyle().Foreground(c(t.Success)),
		Info:     lipgloss.NewStyle().Foreground(c(t.Info)),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.BgSurface1)).
			Padding(0, 1),
	}
}

var (
	mu       sync.RWMutex
	registry = map[string]func() *Theme{
		"catppuccin-mocha": NewCatppuccinMocha,
		"catppuccin-latte": NewCatppuccinLatte,
	}
	current = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetCurrent switches the active theme by name.
func SetCurrent(name string) error {
	ctor, ok := registry[name]
	if !ok {
		return fmt.Errorf("unknown theme %q", name)
	}
	mu.Lock()
	current = ctor()
	mu.Unlock()
	return nil
}

// Names lists the registered themes.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
