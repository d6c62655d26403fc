package measure

// Option is one member of a fixed choice list.
type Option struct {
	Value       string
	Label       string
	Description string
}

// RoomTypes are the rooms a curtain can be ordered for.
var RoomTypes = []Option{
	{Value: "living-room", Label: "Living Room"},
	{Value: "bedroom", Label: "Bedroom"},
	{Value: "dining-room", Label: "Dining Room"},
	{Value: "kitchen", Label: "Kitchen"},
	{Value: "office", Label: "Office"},
	{Value: "bathroom", Label: "Bathroom"},
	{Value: "other", Label: "Other"},
}

// InstallationTypes are the supported mounting methods.
var InstallationTypes = []Option{
	{Value: "ceiling", Label: "Ceiling Mount", Description: "Mounted directly to ceiling"},
	{Value: "wall", Label: "Wall Mount", Description: "Mounted on wall above window"},
	{Value: "inside", Label: "Inside Mount", Description: "Mounted inside window frame"},
}

// HeadingStyles are the optional curtain heading finishes.
var HeadingStyles = []Option{
	{Value: "pencil-pleat", Label: "Pencil Pleat"},
	{Value: "eyelet", Label: "Eyelet"},
	{Value: "tab-top", Label: "Tab Top"},
	{Value: "rod-pocket", Label: "Rod Pocket"},
	{Value: "pinch-pleat", Label: "Pinch Pleat"},
}

// Tips are shown beside the form as a measuring guide.
var Tips = []string{
	"Measure the window frame, not the glass",
	"Add 15-20cm to width for overlap",
	"Add 10-15cm to height for floor clearance",
	"Consider furniture placement",
}

// Find returns the option with the given value.
func Find(options []Option, value string) (Option, bool) {
	for _, o := range options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// LabelOf returns the label for value, or value itself when it is not listed.
func LabelOf(options []Option, value string) string {
	if o, ok := Find(options, value); ok {
		return o.Label
	}
	return value
}
