package stockfolio

// Performance holds the portfolio values at the boundaries of a range
// and the resulting change.
type Performance struct {
	Start, End Money
}

func NewPerformance(start, end Money) Performance {
	return Performance{Start: start, End: end}
}

// Change returns the absolute value change over the range.
func (p Performance) Change() Money {
	return p.End.Sub(p.Start)
}

// Percent returns the relative change over the range, or 0 when the
// starting value is zero.
func (p Performance) Percent() Percent {
	if p.Start.IsZero() {
		return 0
	}
	return Percent(100 * p.Change().AsFloat() / p.Start.AsFloat())
}
