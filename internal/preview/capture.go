package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"github.com/lucasb-eyer/go-colorful"
)

// Capture dimensions in pixels.
const (
	CaptureWidth  = 800
	CaptureHeight = 600
)

var (
	fallbackWall   = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	fallbackFabric = color.RGBA{R: 0x99, G: 0x88, B: 0x77, A: 0xff}
	windowGlass    = color.RGBA{R: 0xcf, G: 0xe3, B: 0xf2, A: 0xff}
	shadow         = color.RGBA{A: 0x4c}
)

// CaptureName is the file name a capture of item is saved under.
func CaptureName(fabricName string) string {
	name := slug.Make(fabricName)
	if name == "" {
		name = "fabric"
	}
	return "curtain-preview-" + name + ".png"
}

// Render draws the scene: the room wall, a window and both curtain panels
// at 80% opacity with a soft drop shadow.
func Render(s Scene) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, CaptureWidth, CaptureHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(hexColor(s.Room.Wall, fallbackWall)), image.Point{}, draw.Src)

	window := image.Rect(CaptureWidth/5, CaptureHeight/8, CaptureWidth*4/5, CaptureHeight*3/4)
	draw.Draw(img, window, image.NewUniform(windowGlass), image.Point{}, draw.Src)

	tone := hexColor(s.Item.Tone, fallbackFabric)
	fabric := color.NRGBA{R: tone.R, G: tone.G, B: tone.B, A: 0xcc}
	left, right := s.Panels(CaptureWidth, CaptureHeight)
	for _, p := range []image.Rectangle{left, right} {
		draw.Draw(img, p.Add(image.Pt(2, 2)), image.NewUniform(shadow), image.Point{}, draw.Over)
		draw.Draw(img, p, image.NewUniform(fabric), image.Point{}, draw.Over)
	}
	return img
}

// Capture renders the scene to dir and returns the written path.
func Capture(s Scene, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating capture directory: %w", err)
	}
	path := filepath.Join(dir, CaptureName(s.Item.Name))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating capture: %w", err)
	}
	if err := png.Encode(f, Render(s)); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("encoding capture: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing capture: %w", err)
	}
	return path, nil
}

func hexColor(hex string, fallback color.RGBA) color.RGBA {
	if hex == "" {
		return fallback
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
