package stockfolio

import (
	"fmt"
	"slices"
	"sort"
)

// PriceSource is the external reference-data and price lookup collaborator.
// The engine only consumes this contract; implementations live at the edge
// (see AlphaVantage) or in memory (see MemorySource).
type PriceSource interface {
	// Stock returns the instrument reference for a symbol, or an error
	// wrapping ErrUnknownSymbol if the source does not support it.
	Stock(symbol string) (Instrument, error)

	// IPODate returns the first date the instrument was tradable.
	IPODate(symbol string) (Date, error)

	// DelistingDate returns the last date the instrument was tradable.
	// A zero Date means the instrument is still listed.
	DelistingDate(symbol string) (Date, error)

	// Price returns the unit price of the instrument on a date. When no
	// quote exists for that exact date it resolves to the nearest past
	// quote, or to the nearest future quote if preferFuture is set.
	// Lookup failures wrap ErrPriceSource.
	Price(symbol string, on Date, preferFuture bool) (Money, error)
}

// quote is a dated unit price.
type quote struct {
	on    Date
	price Money
}

// MemorySource is a deterministic PriceSource backed by explicit quote
// tables. It backs tests and offline demo data.
type MemorySource struct {
	instruments map[string]Instrument
	quotes      map[string][]quote // ascending by date
	delistings  map[string]Date
}

// NewMemorySource returns an empty in-memory price source.
func NewMemorySource() *MemorySource {
	return &MemorySource{
		instruments: make(map[string]Instrument),
		quotes:      make(map[string][]quote),
		delistings:  make(map[string]Date),
	}
}

// Declare registers an instrument with the source.
func (s *MemorySource) Declare(inst Instrument) {
	s.instruments[inst.Symbol()] = inst
}

// SetPrice records the unit price of a symbol on a date, replacing any
// previous quote for that date.
func (s *MemorySource) SetPrice(symbol string, on Date, price Money) {
	qs := s.quotes[symbol]
	i := sort.Search(len(qs), func(i int) bool { return !qs[i].on.Before(on) })
	if i < len(qs) && qs[i].on == on {
		qs[i].price = price
	} else {
		qs = slices.Insert(qs, i, quote{on: on, price: price})
	}
	s.quotes[symbol] = qs
}

// SetDelisting marks the symbol as delisted on a date.
func (s *MemorySource) SetDelisting(symbol string, on Date) {
	s.delistings[symbol] = on
}

func (s *MemorySource) Stock(symbol string) (Instrument, error) {
	inst, ok := s.instruments[symbol]
	if !ok {
		return Instrument{}, fmt.Errorf("%w: %q", ErrUnknownSymbol, symbol)
	}
	return inst, nil
}

func (s *MemorySource) IPODate(symbol string) (Date, error) {
	if _, err := s.Stock(symbol); err != nil {
		return Date{}, err
	}
	qs := s.quotes[symbol]
	if len(qs) == 0 {
		return Date{}, fmt.Errorf("%w: no quotes for %q", ErrPriceSource, symbol)
	}
	return qs[0].on, nil
}

func (s *MemorySource) DelistingDate(symbol string) (Date, error) {
	if _, err := s.Stock(symbol); err != nil {
		return Date{}, err
	}
	return s.delistings[symbol], nil
}

func (s *MemorySource) Price(symbol string, on Date, preferFuture bool) (Money, error) {
	if _, err := s.Stock(symbol); err != nil {
		return Money{}, err
	}
	qs := s.quotes[symbol]
	// index of the first quote on or after 'on'.
	i := sort.Search(len(qs), func(i int) bool { return !qs[i].on.Before(on) })
	if i < len(qs) && qs[i].on == on {
		return qs[i].price, nil
	}
	if preferFuture {
		if i < len(qs) {
			return qs[i].price, nil
		}
	} else if i > 0 {
		return qs[i-1].price, nil
	}
	return Money{}, fmt.Errorf("%w: no quote for %q on or %s %s", ErrPriceSource, symbol, direction(preferFuture), on)
}

var _ PriceSource = (*MemorySource)(nil)

func direction(preferFuture bool) string {
	if preferFuture {
		return "after"
	}
	return "before"
}
