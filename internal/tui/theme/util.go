package theme

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// InterpolateColor blends between two hex colors based on position (0.0 to 1.0).
// Blending happens in Lab space so gradients stay perceptually even.
func InterpolateColor(colorA, colorB string, pos float64) string {
	a, errA := colorful.Hex(colorA)
	b, errB := colorful.Hex(colorB)
	if errA != nil || errB != nil {
		return colorA
	}
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return a.BlendLab(b, pos).Clamped().Hex()
}

// ApplyGradient colors each rune of text along a gradient from one hex
// color to another. Spaces are left unstyled.
func ApplyGradient(text, from, to string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	var b strings.Builder
	for i, r := range runes {
		if r == ' ' {
			b.WriteRune(r)
			continue
		}
		pos := 0.0
		if len(runes) > 1 {
			pos = float64(i) / float64(len(runes)-1)
		}
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(InterpolateColor(from, to, pos)))
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}
