package stockfolio

import (
	"fmt"
	"math"
)

// Percent is a display-side percentage: 5.0 renders as "5.00%". Comparisons
// tolerate float noise below a hundredth of a percent.
type Percent float64

const percentPrecision = 0.0001

func (p Percent) Equal(q Percent) bool {
	return math.Abs(float64(p-q)) < percentPrecision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString renders with an explicit sign, or "-" for a flat change.
func (p Percent) SignedString() string {
	if p.Equal(0) {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", float64(p))
}
