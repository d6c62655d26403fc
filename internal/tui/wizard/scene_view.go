package wizard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/drapery/internal/preview"
)

// sceneView renders a preview.Scene into terminal cells with half blocks,
// two image rows per cell. The last rendering is cached by scene and size.
type sceneView struct {
	key      string
	rendered string
}

func (v *sceneView) View(s preview.Scene, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	key := fmt.Sprintf("%s|%s|%s|%dx%d", s.Item.ID, s.Room.ID, s.Style, cols, rows)
	if key == v.key {
		return v.rendered
	}

	img := preview.Render(s)
	bounds := img.Bounds()
	lines := make([]string, rows)
	for y := 0; y < rows; y++ {
		var b strings.Builder
		topY := bounds.Min.Y + (2*y)*bounds.Dy()/(2*rows)
		botY := bounds.Min.Y + (2*y+1)*bounds.Dy()/(2*rows)
		for x := 0; x < cols; x++ {
			px := bounds.Min.X + x*bounds.Dx()/cols
			cell := lipgloss.NewStyle().
				Foreground(img.RGBAAt(px, topY)).
				Background(img.RGBAAt(px, botY))
			b.WriteString(cell.Render("▀"))
		}
		lines[y] = b.String()
	}

	v.key = key
	v.rendered = strings.Join(lines, "\n")
	return v.rendered
}
