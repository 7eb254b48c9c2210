package stockfolio

import "time"

// Shared fixtures for the engine tests. Prices are deterministic and the
// clock is frozen so every assertion is reproducible.

var (
	apple  = NewInstrument("AAPL", "Apple Inc", "NASDAQ")
	google = NewInstrument("GOOG", "Alphabet Inc", "NASDAQ")
	ibm    = NewInstrument("IBM", "International Business Machines", "NYSE")
)

// fixedClock freezes the portfolio clock on a date.
func fixedClock(d Date) Clock { return func() Date { return d } }

// newTestSource returns a memory source with the three fixture instruments
// quoted flat from 2025-01-01 to 2025-12-31: AAPL at 100, GOOG at 250, IBM
// at 50, one quote on the first of every month.
func newTestSource() *MemorySource {
	src := NewMemorySource()
	src.Declare(apple)
	src.Declare(google)
	src.Declare(ibm)
	for m := 1; m <= 12; m++ {
		on := NewDate(2025, time.Month(m), 1)
		src.SetPrice("AAPL", on, USD(100))
		src.SetPrice("GOOG", on, USD(250))
		src.SetPrice("IBM", on, USD(50))
	}
	return src
}
