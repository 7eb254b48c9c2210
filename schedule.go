package stockfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Interval is the unit a recurring event steps by.
type Interval int

const (
	Daily Interval = iota
	Monthly
	Yearly
)

func (iv Interval) String() string {
	switch iv {
	case Daily:
		return "daily"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown interval %d", int(iv)))
	}
}

// ParseInterval parses an interval name.
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(s) {
	case "daily", "day":
		return Daily, nil
	case "monthly", "month":
		return Monthly, nil
	case "yearly", "year":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("%w: unknown interval %q", ErrInvalidArgument, s)
	}
}

// StepDate advances a date by delta intervals. Month and year arithmetic
// clamps the day of month to the last existing day of the target month
// (see Date.AddMonths).
func StepDate(d Date, iv Interval, delta int) Date {
	switch iv {
	case Daily:
		return d.AddDays(delta)
	case Monthly:
		return d.AddMonths(delta)
	case Yearly:
		return d.AddYears(delta)
	default:
		panic(fmt.Sprintf("unknown interval %d", int(iv)))
	}
}

// RecurringEvent governs how a scheduled investment repeats: every 'delta'
// days, months or years, optionally until an end date. It is immutable.
type RecurringEvent struct {
	interval Interval
	delta    int
	end      Date // zero when the schedule has no end
}

// NewRecurringEvent creates a recurring event. Delta must be a positive
// number of intervals; a zero end date means the schedule never expires.
func NewRecurringEvent(iv Interval, delta int, end Date) (RecurringEvent, error) {
	if delta <= 0 {
		return RecurringEvent{}, fmt.Errorf("%w: recurring interval delta must be positive, got %d", ErrInvalidArgument, delta)
	}
	return RecurringEvent{interval: iv, delta: delta, end: end}, nil
}

// Interval returns the stepping unit.
func (r RecurringEvent) Interval() Interval { return r.interval }

// Delta returns the number of intervals between occurrences.
func (r RecurringEvent) Delta() int { return r.delta }

// End returns the last date an occurrence may fall on; zero means no end.
func (r RecurringEvent) End() Date { return r.end }

// next returns the occurrence following 'on'.
func (r RecurringEvent) next(on Date) Date { return StepDate(on, r.interval, r.delta) }

// includes reports whether an occurrence on 'on' is within the schedule.
func (r RecurringEvent) includes(on Date) bool { return r.end.IsZero() || !on.After(r.end) }

func (r RecurringEvent) String() string {
	s := fmt.Sprintf("every %d %s", r.delta, r.interval)
	if !r.end.IsZero() {
		s += " until " + r.end.String()
	}
	return s
}

// DollarCostInvestment is an intent to invest a fixed currency amount on a
// schedule. Occurrences on or before the current date are expanded into
// ledger transactions immediately; the first occurrence on or after the
// current date is retained on the ledger as a pending investment, used only
// for forward-looking cost-basis projection.
type DollarCostInvestment struct {
	first     Date
	amount    Money
	fee       Money
	recurring *RecurringEvent // nil for a one-shot investment
}

// NewDollarCostInvestment creates a scheduled investment. The amount must be
// positive and the fee non-negative.
func NewDollarCostInvestment(first Date, amount, fee Money, recurring *RecurringEvent) (DollarCostInvestment, error) {
	if !amount.IsPositive() {
		return DollarCostInvestment{}, fmt.Errorf("%w: investment amount must be positive, got %s", ErrInvalidArgument, amount)
	}
	if fee.IsNegative() {
		return DollarCostInvestment{}, fmt.Errorf("%w: commission fee must not be negative, got %s", ErrInvalidArgument, fee)
	}
	return DollarCostInvestment{first: first, amount: amount, fee: fee, recurring: recurring}, nil
}

// First returns the date of the next (not yet materialized) occurrence.
func (inv DollarCostInvestment) First() Date { return inv.first }

// Amount returns the fixed currency amount invested per occurrence.
func (inv DollarCostInvestment) Amount() Money { return inv.amount }

// Fee returns the commission paid per occurrence.
func (inv DollarCostInvestment) Fee() Money { return inv.fee }

// Recurring returns the recurrence rule, or nil for a one-shot investment.
func (inv DollarCostInvestment) Recurring() *RecurringEvent { return inv.recurring }

// sameSchedule reports whether two investments are occurrences of the same
// schedule, i.e. they differ at most by their next occurrence date.
func (inv DollarCostInvestment) sameSchedule(o DollarCostInvestment) bool {
	if !inv.amount.Equal(o.amount) || !inv.fee.Equal(o.fee) {
		return false
	}
	if (inv.recurring == nil) != (o.recurring == nil) {
		return false
	}
	return inv.recurring == nil || *inv.recurring == *o.recurring
}

// projectedCost sums amount+fee over the occurrences strictly before 'on'.
// The investment's occurrence dates all lie in the future, so this is the
// forward-looking part of a cost basis queried for a future date.
func (inv DollarCostInvestment) projectedCost(on Date) Money {
	cost := USD(0)
	perOccurrence := inv.amount.Add(inv.fee)
	if inv.recurring == nil {
		if inv.first.Before(on) {
			cost = cost.Add(perOccurrence)
		}
		return cost
	}
	for occ := inv.first; occ.Before(on) && inv.recurring.includes(occ); occ = inv.recurring.next(occ) {
		cost = cost.Add(perOccurrence)
	}
	return cost
}

// materialize expands the investment into ledger transactions: one buy per
// occurrence strictly before 'today', each sized so that volume * price
// equals the fixed amount, rounded up to two decimal places of volume. When
// no exact quote exists for an occurrence the nearest future price is used,
// reflecting that a scheduled buy executes at the next available market
// price. The first unmaterialized occurrence, if any, is retained on the
// ledger as pending.
func (inv DollarCostInvestment) materialize(today Date, src PriceSource, ledger *Ledger) error {
	symbol := ledger.Instrument().Symbol()
	current := inv.first
	for current.Before(today) && (inv.recurring == nil || inv.recurring.includes(current)) {
		price, err := src.Price(symbol, current, true)
		if err != nil {
			return err
		}
		if !price.IsPositive() {
			return fmt.Errorf("%w: non-positive price %s for %s on %s", ErrPriceSource, price, symbol, current)
		}
		volume := inv.amount.DivPrice(price).RoundUp(2)
		if err := ledger.Insert(NewTransaction(current, volume, price, inv.fee)); err != nil {
			return err
		}
		if inv.recurring == nil {
			break
		}
		current = inv.recurring.next(current)
	}

	if !current.Before(today) {
		next := inv
		next.first = current
		ledger.setPending(next)
	}
	return nil
}

// ValidateAllocation checks percentage weights used to split a fixed amount
// across several instruments: each weight must be positive and together they
// must sum to exactly 100. Uniqueness per symbol is guaranteed by the map.
func ValidateAllocation(weights map[string]decimal.Decimal) error {
	if len(weights) == 0 {
		return fmt.Errorf("%w: allocation requires at least one weight", ErrInvalidArgument)
	}
	total := decimal.Zero
	for symbol, w := range weights {
		if !w.IsPositive() {
			return fmt.Errorf("%w: weight for %q must be positive, got %s", ErrInvalidArgument, symbol, w)
		}
		total = total.Add(w)
	}
	if !total.Equal(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: allocation weights must sum to 100, got %s", ErrInvalidArgument, total)
	}
	return nil
}
