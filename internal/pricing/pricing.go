// Package pricing holds the fabric quantity formula and the order price
// breakdown. Both the intake calculator and the order summary use it, so the
// fullness and hem constants exist in one place only.
package pricing

import (
	"fmt"
	"math"
)

const (
	// FullnessFactor multiplies the window width so the curtain gathers.
	FullnessFactor = 2.0
	// HemAllowanceCM is added to the height for top and bottom hems.
	HemAllowanceCM = 30.0
	// SquareCMPerSquareMetre converts the cm² area to m².
	SquareCMPerSquareMetre = 10000.0

	MakingCharge    = 45.0
	InstallationFee = 35.0
	DeliveryFee     = 15.0
	TaxRate         = 0.10
)

// Fabric is the quantity of fabric a window needs.
type Fabric struct {
	Width float64 // cm, including fullness
	Drop  float64 // cm, including hems
	Area  float64 // m²
}

// FabricFor computes the fabric quantity for a window of the given size in
// centimetres. Non-positive dimensions yield a zero quantity.
func FabricFor(width, height float64) Fabric {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return Fabric{}
	}
	w := width * FullnessFactor
	d := height + HemAllowanceCM
	return Fabric{
		Width: w,
		Drop:  d,
		Area:  w * d / SquareCMPerSquareMetre,
	}
}

// Breakdown is the itemized price of one curtain order. Values are kept at
// full precision; use Money for display.
type Breakdown struct {
	Fabric          Fabric
	FabricCost      float64
	MakingCharge    float64
	InstallationFee float64
	DeliveryFee     float64
	Subtotal        float64
	Tax             float64
	Total           float64
}

// Quote prices a curtain in a fabric costing pricePerM2 for a window of the
// given size in centimetres.
func Quote(pricePerM2, width, height float64) Breakdown {
	fabric := FabricFor(width, height)
	cost := fabric.Area * pricePerM2
	subtotal := cost + MakingCharge + InstallationFee + DeliveryFee
	tax := subtotal * TaxRate
	return Breakdown{
		Fabric:          fabric,
		FabricCost:      cost,
		MakingCharge:    MakingCharge,
		InstallationFee: InstallationFee,
		DeliveryFee:     DeliveryFee,
		Subtotal:        subtotal,
		Tax:             tax,
		Total:           subtotal + tax,
	}
}

// Services returns the fixed service lines in display order.
func (b Breakdown) Services() []Line {
	return []Line{
		{Label: "Making charge", Amount: b.MakingCharge},
		{Label: "Installation", Amount: b.InstallationFee},
		{Label: "Delivery", Amount: b.DeliveryFee},
	}
}

// Line is one labelled amount in a rendered breakdown.
type Line struct {
	Label  string
	Amount float64
}

// Money formats an amount as dollars, truncated (not rounded) to cents.
func Money(v float64) string {
	return "$" + Amount(v)
}

// Amount formats v with two decimals, truncating toward zero. A small epsilon
// absorbs binary representation error so 762.50 never displays as 762.49.
func Amount(v float64) string {
	const eps = 1e-9
	if v < 0 {
		return "-" + Amount(-v)
	}
	cents := math.Floor(v*100 + eps)
	return fmt.Sprintf("%.2f", cents/100)
}

// Area formats a fabric area in m² with two decimals.
func Area(m2 float64) string {
	return Amount(m2) + " m²"
}
