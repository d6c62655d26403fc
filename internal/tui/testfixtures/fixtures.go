package testfixtures

import (
	"time"

	"github.com/mark3labs/drapery/internal/catalog"
	"github.com/mark3labs/drapery/internal/measure"
	"github.com/mark3labs/drapery/internal/order"
)

// Fixed test values for consistent output
const (
	FixedOrderID = "TESTORDER01"
)

var (
	FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
)

// Silk returns the first default catalog fabric (Silk Elegance, $89/m²).
func Silk() catalog.Item {
	item, err := catalog.MustDefault().Lookup("1")
	if err != nil {
		panic(err)
	}
	return item
}

// Window returns valid measurements for a 150 × 220 cm bedroom window.
func Window() measure.Measurements {
	return measure.Measurements{
		Width:            150,
		Height:           220,
		RoomType:         "bedroom",
		InstallationType: "wall",
	}
}

// FixedPlacer numbers orders deterministically.
func FixedPlacer() order.Placer {
	return order.Placer{
		Now:    func() time.Time { return FixedTime },
		NextID: func() string { return FixedOrderID },
	}
}
