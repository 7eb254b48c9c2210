package stockfolio

import (
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// Rebalance records the computed sizing of one synthetic transaction
// produced by rebalancing: the instrument, its target weight and the signed
// currency amount traded (positive bought, negative sold).
type Rebalance struct {
	Date         Date
	Symbol       string
	TargetWeight decimal.Decimal
	Amount       Money
}

// sortedKeys returns the map keys in ascending order for deterministic
// iteration.
func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := slices.Collect(maps.Keys(m))
	slices.Sort(keys)
	return keys
}

// Rebalance adjusts holdings on a date to match target weight percentages.
//
// The total portfolio value on the date is split per the weights: for each
// weighted instrument the difference between its target value and current
// value is traded at that date's price, a buy when positive and a sell when
// negative. Instruments absent from the weights are left untouched.
// Weights need not sum to 100 when some instruments are intentionally
// excluded, but each must be non-negative (a zero weight liquidates).
//
// Every synthetic transaction is applied through Ledger.Insert and so
// inherits the ledger validation; the whole rebalance is atomic, a failed
// step rolls back all applied legs.
func (p *Portfolio) Rebalance(on Date, weights map[string]decimal.Decimal) ([]Rebalance, error) {
	for symbol, w := range weights {
		if w.IsNegative() {
			return nil, fmt.Errorf("%w: weight for %q must not be negative, got %s", ErrInvalidArgument, symbol, w)
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	today := p.now()

	total, err := p.valueAsOf(on, today)
	if err != nil {
		return nil, err
	}

	hundred := Q(100)
	saved := p.snapshotAll()
	records := make([]Rebalance, 0, len(weights))
	for _, symbol := range sortedKeys(weights) {
		if err := p.rebalanceLeg(on, today, symbol, weights[symbol], total, hundred, &records); err != nil {
			p.restoreAll(saved)
			return nil, err
		}
	}
	return records, nil
}

// rebalanceLeg sizes and applies the trade bringing one instrument to its
// target weight. Callers hold the lock.
func (p *Portfolio) rebalanceLeg(on, today Date, symbol string, weight decimal.Decimal, total Money, hundred Quantity, records *[]Rebalance) error {
	if err := p.checkTradable(symbol, on); err != nil {
		return err
	}
	l, err := p.ledger(symbol)
	if err != nil {
		return err
	}
	_, current, err := l.ValueAsOf(on, today, p.src)
	if err != nil {
		return err
	}

	target := total.Mul(Q(weight)).Div(hundred)
	delta := target.Sub(current)
	if delta.IsZero() {
		return nil
	}

	price, err := p.src.Price(symbol, on, false)
	if err != nil {
		return err
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: non-positive price %s for %s on %s", ErrPriceSource, price, symbol, on)
	}
	volume := delta.DivPrice(price)
	if err := l.Insert(NewTransaction(on, volume, price, USD(0))); err != nil {
		return err
	}
	*records = append(*records, Rebalance{Date: on, Symbol: symbol, TargetWeight: weight, Amount: delta})
	return nil
}
