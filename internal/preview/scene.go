// Package preview places a fabric in a room setting and runs the optional
// AR session behind the AssetRenderer capability.
package preview

import (
	"image"

	"github.com/mark3labs/drapery/internal/catalog"
)

// Room is a backdrop the curtain is overlaid on.
type Room struct {
	ID          string
	Name        string
	Description string
	Image       string
	Wall        string // hex colour used when the photo is not available
}

// Rooms are the selectable settings, in display order.
var Rooms = []Room{
	{
		ID:          "living",
		Name:        "Living Room",
		Description: "Spacious living room with natural light",
		Image:       "https://images.unsplash.com/photo-1565538810643-b5bdb714032a?w=800&h=600&fit=crop",
		Wall:        "#ece4d8",
	},
	{
		ID:          "bedroom",
		Name:        "Bedroom",
		Description: "Cozy bedroom setting",
		Image:       "https://images.unsplash.com/photo-1560448204-603b3fc33ddc?w=800&h=600&fit=crop",
		Wall:        "#dfe3e8",
	},
	{
		ID:          "dining",
		Name:        "Dining Room",
		Description: "Elegant dining space",
		Image:       "https://images.unsplash.com/photo-1567767292278-a4f21aa2d36e?w=800&h=600&fit=crop",
		Wall:        "#e9dfcf",
	},
}

// Style is how the curtain panels hang.
type Style string

const (
	StyleGathered Style = "gathered"
	StyleStraight Style = "straight"
)

// Label is the display name of the style.
func (s Style) Label() string {
	if s == StyleStraight {
		return "Straight"
	}
	return "Gathered"
}

// Toggle switches between gathered and straight.
func (s Style) Toggle() Style {
	if s == StyleStraight {
		return StyleGathered
	}
	return StyleStraight
}

// PanelScale is the horizontal scale applied to each panel.
func (s Style) PanelScale() float64 {
	if s == StyleStraight {
		return 1
	}
	return 0.8
}

// Scene is everything needed to draw the static overlay.
type Scene struct {
	Item  catalog.Item
	Room  Room
	Style Style
}

// NewScene returns the default scene for a fabric.
func NewScene(item catalog.Item) Scene {
	return Scene{Item: item, Room: Rooms[0], Style: StyleGathered}
}

// NextRoom cycles to the following room setting.
func (s Scene) NextRoom() Scene {
	for i, r := range Rooms {
		if r.ID == s.Room.ID {
			s.Room = Rooms[(i+1)%len(Rooms)]
			return s
		}
	}
	s.Room = Rooms[0]
	return s
}

// WithRoom selects a room by id, leaving the scene unchanged for unknown ids.
func (s Scene) WithRoom(id string) Scene {
	for _, r := range Rooms {
		if r.ID == id {
			s.Room = r
			return s
		}
	}
	return s
}

// Panels returns the left and right curtain rectangles inside a frame of the
// given size. Each panel covers 30% of the width and 70% of the height,
// inset 15% from its side and 10% from the top, then scaled horizontally
// about its centre by the style.
func (s Scene) Panels(width, height int) (left, right image.Rectangle) {
	w := float64(width)
	h := float64(height)
	pw := 0.30 * w
	top := int(0.10 * h)
	bottom := top + int(0.70*h)
	scaled := pw * s.Style.PanelScale()
	pad := (pw - scaled) / 2

	lx := 0.15*w + pad
	rx := w - 0.15*w - pw + pad
	left = image.Rect(int(lx), top, int(lx+scaled), bottom)
	right = image.Rect(int(rx), top, int(rx+scaled), bottom)
	return left, right
}
