package wizard

import (
	"testing"

	"github.com/mark3labs/drapery/internal/order"
	"github.com/mark3labs/drapery/internal/tui/testfixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSummary(t *testing.T, extras order.Extras) *SummaryStep {
	t.Helper()
	step := NewSummaryStep(testfixtures.Silk(), testfixtures.Window(), extras)
	step.SetSize(100, 120)
	return step
}

func TestSummaryStep_Quote(t *testing.T) {
	step := newSummary(t, order.Extras{Heading: "eyelet", Notes: "bay window"})

	view := plain(step.View())
	for _, want := range []string{
		"Silk Elegance",
		"150 × 220 cm",
		"Bedroom",
		"Wall Mount",
		"Eyelet",
		"bay window",
		"7.50 m²",
		"$667.50",
		"$45.00",
		"$35.00",
		"$15.00",
		"$762.50",
		"$76.25",
		"$838.75",
		"Place Order",
	} {
		assert.Contains(t, view, want)
	}
	assert.Nil(t, step.Placed())
}

func TestSummaryStep_PlaceThenStartOver(t *testing.T) {
	step := newSummary(t, order.Extras{})

	cmd := step.Update(enterKey)
	require.NotNil(t, cmd)
	place, ok := cmd().(PlaceOrderMsg)
	require.True(t, ok)
	assert.Equal(t, "Silk Elegance", place.Item.Name)
	assert.Equal(t, testfixtures.Window(), place.Measurements)

	item, m := testfixtures.Silk(), testfixtures.Window()
	o, err := testfixtures.FixedPlacer().Place(&item, &m, order.Extras{})
	require.NoError(t, err)
	step.SetPlaced(o)
	require.NotNil(t, step.Placed())

	view := plain(step.View())
	assert.Contains(t, view, "Order confirmed")
	assert.Contains(t, view, "CRT-TESTORDER01")
	assert.Contains(t, view, "Start Over")
	assert.NotContains(t, view, "Place Order")

	cmd = step.Update(enterKey)
	require.NotNil(t, cmd)
	assert.IsType(t, StartOverMsg{}, cmd())
}

func TestSummaryStep_HookOutput(t *testing.T) {
	step := newSummary(t, order.Extras{})
	step.Update(HooksRanMsg{})
	assert.NotContains(t, plain(step.View()), "receipt sent")

	step.Update(HooksRanMsg{Output: "receipt sent"})
	assert.Contains(t, plain(step.View()), "receipt sent")
}
