// Package measure validates the window measurement form and runs the live
// fabric estimate shown while the customer types.
package measure

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mark3labs/drapery/internal/pricing"
)

// Field names a form input.
type Field string

const (
	FieldWidth            Field = "width"
	FieldHeight           Field = "height"
	FieldRoomType         Field = "roomType"
	FieldInstallationType Field = "installationType"
	FieldHeading          Field = "heading"
	FieldNotes            Field = "notes"
)

// Validation messages.
const (
	MsgInvalidWidth             = "invalid width"
	MsgInvalidHeight            = "invalid height"
	MsgRoomTypeRequired         = "room type required"
	MsgUnknownRoomType          = "unknown room type"
	MsgInstallationTypeRequired = "installation type required"
	MsgUnknownInstallationType  = "unknown installation type"
)

// Form is the raw, as-typed state of the intake form.
type Form struct {
	Width            string
	Height           string
	RoomType         string
	InstallationType string
	Heading          string
	Notes            string
}

// Measurements are validated window dimensions in centimetres.
type Measurements struct {
	Width            float64 `json:"width"`
	Height           float64 `json:"height"`
	RoomType         string  `json:"room_type"`
	InstallationType string  `json:"installation_type"`
}

// FieldErrors maps a field to its validation message. A nil or empty map
// means the form is valid.
type FieldErrors map[Field]string

// Has reports whether field has an error.
func (e FieldErrors) Has(f Field) bool {
	_, ok := e[f]
	return ok
}

// Clear removes the error for one field only.
func (e FieldErrors) Clear(f Field) {
	delete(e, f)
}

// Fields returns the fields with errors, sorted for stable output.
func (e FieldErrors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks every field independently and returns all errors together.
// Measurements is only meaningful when the returned errors are empty.
func Validate(f Form) (Measurements, FieldErrors) {
	errs := FieldErrors{}
	var m Measurements

	if w, ok := ParseDimension(f.Width); ok {
		m.Width = w
	} else {
		errs[FieldWidth] = MsgInvalidWidth
	}

	if h, ok := ParseDimension(f.Height); ok {
		m.Height = h
	} else {
		errs[FieldHeight] = MsgInvalidHeight
	}

	room := strings.TrimSpace(f.RoomType)
	switch _, known := Find(RoomTypes, room); {
	case room == "":
		errs[FieldRoomType] = MsgRoomTypeRequired
	case !known:
		errs[FieldRoomType] = MsgUnknownRoomType
	default:
		m.RoomType = room
	}

	inst := strings.TrimSpace(f.InstallationType)
	switch _, known := Find(InstallationTypes, inst); {
	case inst == "":
		errs[FieldInstallationType] = MsgInstallationTypeRequired
	case !known:
		errs[FieldInstallationType] = MsgUnknownInstallationType
	default:
		m.InstallationType = inst
	}

	return m, errs
}

// Valid reports whether m could have come from a form that passed Validate:
// both dimensions finite and positive, room and installation types listed.
func (m Measurements) Valid() bool {
	if !validDimension(m.Width) || !validDimension(m.Height) {
		return false
	}
	if _, ok := Find(RoomTypes, m.RoomType); !ok {
		return false
	}
	_, ok := Find(InstallationTypes, m.InstallationType)
	return ok
}

func validDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// ParseDimension accepts a finite real number greater than zero. The whole
// string must parse; "150cm" is rejected.
func ParseDimension(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || !validDimension(v) {
		return 0, false
	}
	return v, true
}

// Estimate is the live calculator. Input that does not parse, or is not
// positive, counts as zero and produces a zero quantity.
func Estimate(width, height string) pricing.Fabric {
	w, _ := ParseDimension(width)
	h, _ := ParseDimension(height)
	return pricing.FabricFor(w, h)
}

// Ready reports whether the live calculator has both inputs to work with.
func Ready(width, height string) bool {
	return strings.TrimSpace(width) != "" && strings.TrimSpace(height) != ""
}
