package stockfolio

// Instrument identifies a tradable instrument as reported by the price
// source. It is immutable; two instruments are equal when symbol, name and
// exchange all match.
type Instrument struct {
	symbol   string
	name     string
	exchange string
}

// NewInstrument creates a new instrument reference.
func NewInstrument(symbol, name, exchange string) Instrument {
	return Instrument{symbol: symbol, name: name, exchange: exchange}
}

// Symbol returns the instrument's ticker symbol.
func (i Instrument) Symbol() string { return i.symbol }

// Name returns the instrument's display name.
func (i Instrument) Name() string { return i.name }

// Exchange returns the exchange the instrument trades on.
func (i Instrument) Exchange() string { return i.exchange }

func (i Instrument) Equal(o Instrument) bool { return i == o }

func (i Instrument) String() string { return i.symbol }
