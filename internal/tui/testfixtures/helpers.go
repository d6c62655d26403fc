package testfixtures

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
)

// Initialize test environment
func init() {
	// Ascii profile strips color so rendered output can be matched as plain text
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 120
	TestTermHeight = 40
)

// Render draws content onto a canonical-size screen buffer and returns the
// plain text, the same path the wizard View takes.
func Render(content string) string {
	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: TestTermWidth, Y: TestTermHeight},
	})
	return canvas.Render()
}

// RequireContains fails the test unless every substring appears in s.
func RequireContains(t *testing.T, s string, substrs ...string) {
	t.Helper()
	for _, sub := range substrs {
		if !strings.Contains(s, sub) {
			t.Fatalf("expected output to contain %q\n\nOutput:\n%s", sub, s)
		}
	}
}
