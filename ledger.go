package stockfolio

import (
	"fmt"
	"iter"
	"slices"
	"sort"
)

// Ledger is the per-instrument transaction history inside a portfolio: an
// ordered-by-date multiset of transactions (same-day entries coexist in
// insertion order) plus the derived total volume.
//
// Invariant: for every prefix of the date-ordered sequence, the running sum
// of signed volumes is non-negative. A position can never go net negative at
// any historical instant. The ledger is mutated only by Insert and entries
// are never deleted; a sell is a transaction with negative volume, not a
// removal.
type Ledger struct {
	instrument   Instrument
	transactions []Transaction // always sorted by date, stable within a day
	totalVolume  Quantity
	pending      []DollarCostInvestment // scheduled, not yet materialized
}

// NewLedger creates an empty ledger for an instrument.
func NewLedger(instrument Instrument) *Ledger {
	return &Ledger{instrument: instrument}
}

// Instrument returns the instrument this ledger tracks.
func (l *Ledger) Instrument() Instrument { return l.instrument }

// TotalVolume returns the net position over the whole history.
func (l *Ledger) TotalVolume() Quantity { return l.totalVolume }

// Len returns the number of recorded transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator over the transactions in date order.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			if !yield(i, tx) {
				return
			}
		}
	}
}

// insertionIndex returns the position where a transaction dated 'on' would
// be inserted: after all existing entries of the same date.
func (l *Ledger) insertionIndex(on Date) int {
	return sort.Search(len(l.transactions), func(i int) bool {
		return l.transactions[i].When().After(on)
	})
}

// Insert validates and records a transaction.
//
// The would-be running-sum sequence is recomputed with the new entry at its
// date-sorted position; if any prefix sum would go negative the insertion is
// rejected with ErrInvalidState and the ledger is left untouched. Validation
// and commit are a single step: there is no partial application.
func (l *Ledger) Insert(tx Transaction) error {
	if tx.Volume().IsZero() {
		return fmt.Errorf("%w: transaction volume must not be zero", ErrInvalidArgument)
	}
	if tx.Price().IsNegative() {
		return fmt.Errorf("%w: unit price must not be negative, got %s", ErrInvalidArgument, tx.Price())
	}
	if tx.Fee().IsNegative() {
		return fmt.Errorf("%w: commission fee must not be negative, got %s", ErrInvalidArgument, tx.Fee())
	}

	at := l.insertionIndex(tx.When())

	// Simulate the running position with the new entry in place.
	var running Quantity
	for _, existing := range l.transactions[:at] {
		running = running.Add(existing.Volume())
	}
	running = running.Add(tx.Volume())
	if running.IsNegative() {
		return fmt.Errorf("%w: on %s position of %s would drop to %s", ErrInvalidState, tx.When(), l.instrument.Symbol(), running)
	}
	for _, existing := range l.transactions[at:] {
		running = running.Add(existing.Volume())
		if running.IsNegative() {
			return fmt.Errorf("%w: on %s position of %s would drop to %s", ErrInvalidState, existing.When(), l.instrument.Symbol(), running)
		}
	}

	l.transactions = slices.Insert(l.transactions, at, tx)
	l.totalVolume = l.totalVolume.Add(tx.Volume())
	return nil
}

// VolumeAsOf returns the net position held at the end of the given date.
func (l *Ledger) VolumeAsOf(on Date) Quantity {
	var volume Quantity
	for _, tx := range l.transactions {
		if tx.When().After(on) {
			// The ledger is sorted by date, so it's safe to break.
			break
		}
		volume = volume.Add(tx.Volume())
	}
	return volume
}

// ValueAsOf returns the position and its market value at the end of the
// given date. Valuation is only defined up to the present instant: a date
// strictly after 'today' fails with ErrFutureDate. Scheduled but
// unmaterialized investments are excluded.
func (l *Ledger) ValueAsOf(on, today Date, src PriceSource) (Quantity, Money, error) {
	if on.After(today) {
		return Quantity{}, Money{}, fmt.Errorf("%w: cannot value %s on %s, current date is %s", ErrFutureDate, l.instrument.Symbol(), on, today)
	}
	volume := l.VolumeAsOf(on)
	if volume.IsZero() {
		return volume, USD(0), nil
	}
	price, err := src.Price(l.instrument.Symbol(), on, false)
	if err != nil {
		return Quantity{}, Money{}, err
	}
	return volume, price.Mul(volume), nil
}

// CostBasisAsOf returns the cumulative currency committed to the position by
// the end of the given date: every commission fee plus, for buys only, the
// purchase cost (a sell contributes only its fee, never a capital return).
//
// When 'on' is strictly after 'today' the pending scheduled investments are
// projected forward and their amounts and fees are included, answering "how
// much will I have put in by then" rather than "how much have I put in so far".
func (l *Ledger) CostBasisAsOf(on, today Date) Money {
	basis := USD(0)
	for _, tx := range l.transactions {
		if tx.When().After(on) {
			break
		}
		basis = basis.Add(tx.Fee())
		if tx.IsBuy() {
			basis = basis.Add(tx.Price().Mul(tx.Volume()))
		}
	}

	if !on.After(today) {
		return basis
	}
	for _, inv := range l.pending {
		basis = basis.Add(inv.projectedCost(on))
	}
	return basis
}

// Pending returns the scheduled investments that have not yet materialized.
func (l *Ledger) Pending() []DollarCostInvestment {
	return slices.Clone(l.pending)
}

// setPending retains 'inv' as the next unmaterialized occurrence, replacing
// any stale pending entry with the same schedule.
func (l *Ledger) setPending(inv DollarCostInvestment) {
	for i, p := range l.pending {
		if p.sameSchedule(inv) {
			l.pending[i] = inv
			return
		}
	}
	l.pending = append(l.pending, inv)
}

// snapshot captures the ledger state so a compound mutation can be rolled
// back if a later step fails validation.
func (l *Ledger) snapshot() ledgerState {
	return ledgerState{
		transactions: slices.Clone(l.transactions),
		totalVolume:  l.totalVolume,
		pending:      slices.Clone(l.pending),
	}
}

func (l *Ledger) restore(s ledgerState) {
	l.transactions = s.transactions
	l.totalVolume = s.totalVolume
	l.pending = s.pending
}

type ledgerState struct {
	transactions []Transaction
	totalVolume  Quantity
	pending      []DollarCostInvestment
}
