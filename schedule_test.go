package stockfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input string
		want  Interval
		err   bool
	}{
		{"daily", Daily, false},
		{"day", Daily, false},
		{"Monthly", Monthly, false},
		{"YEARLY", Yearly, false},
		{"weekly", Daily, true},
		{"", Daily, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInterval(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("ParseInterval(%q) error = %v, want error %v", tt.input, err, tt.err)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseInterval(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestStepDate(t *testing.T) {
	start := NewDate(2025, time.January, 31)
	tests := []struct {
		name     string
		interval Interval
		delta    int
		want     Date
	}{
		{"daily", Daily, 7, NewDate(2025, time.February, 7)},
		{"monthly clamps", Monthly, 1, NewDate(2025, time.February, 28)},
		{"yearly", Yearly, 1, NewDate(2026, time.January, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StepDate(start, tt.interval, tt.delta); got != tt.want {
				t.Errorf("StepDate = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewRecurringEvent_RejectsNonPositiveDelta(t *testing.T) {
	for _, delta := range []int{0, -1} {
		if _, err := NewRecurringEvent(Monthly, delta, Date{}); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("delta %d: error = %v, want ErrInvalidArgument", delta, err)
		}
	}
}

func TestNewDollarCostInvestment_Validation(t *testing.T) {
	first := NewDate(2025, time.June, 1)
	if _, err := NewDollarCostInvestment(first, USD(0), USD(0), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero amount: error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewDollarCostInvestment(first, USD(-100), USD(0), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative amount: error = %v, want ErrInvalidArgument", err)
	}
	if _, err := NewDollarCostInvestment(first, USD(100), USD(-1), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative fee: error = %v, want ErrInvalidArgument", err)
	}
}

// A one-shot investment dated in the past becomes exactly one buy sized as
// amount / price, and nothing stays pending.
func TestMaterialize_OneShot(t *testing.T) {
	src := newTestSource()
	today := NewDate(2025, time.June, 15)
	l := NewLedger(google)

	inv, err := NewDollarCostInvestment(NewDate(2025, time.June, 1), USD(1000), USD(2), nil)
	if err != nil {
		t.Fatalf("NewDollarCostInvestment: %v", err)
	}
	if err := inv.materialize(today, src, l); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
	// GOOG quotes at 250, so $1000 buys 4 shares.
	if !l.TotalVolume().Equal(Q(4)) {
		t.Errorf("TotalVolume = %s, want 4", l.TotalVolume())
	}
	if pending := l.Pending(); len(pending) != 0 {
		t.Errorf("Pending = %v, want none", pending)
	}
}

// A one-shot investment dated in the future buys nothing yet and stays
// pending for cost-basis projection.
func TestMaterialize_OneShotFuture(t *testing.T) {
	src := newTestSource()
	today := NewDate(2025, time.June, 15)
	first := NewDate(2025, time.July, 1)
	l := NewLedger(google)

	inv, err := NewDollarCostInvestment(first, USD(1000), USD(2), nil)
	if err != nil {
		t.Fatalf("NewDollarCostInvestment: %v", err)
	}
	if err := inv.materialize(today, src, l); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	if l.Len() != 0 {
		t.Errorf("Len = %d, want 0", l.Len())
	}
	pending := l.Pending()
	if len(pending) != 1 || pending[0].First() != first {
		t.Fatalf("Pending = %v, want one entry on %s", pending, first)
	}
}

// A monthly schedule started in the past expands one buy per elapsed
// occurrence and retains the next occurrence as pending.
func TestMaterialize_Recurring(t *testing.T) {
	src := newTestSource()
	today := NewDate(2025, time.June, 15)
	rec, err := NewRecurringEvent(Monthly, 1, Date{})
	if err != nil {
		t.Fatalf("NewRecurringEvent: %v", err)
	}
	l := NewLedger(apple)

	// Occurrences: Mar 10, Apr 10, May 10, Jun 10 executed; Jul 10 pending.
	inv, err := NewDollarCostInvestment(NewDate(2025, time.March, 10), USD(250), USD(1), &rec)
	if err != nil {
		t.Fatalf("NewDollarCostInvestment: %v", err)
	}
	if err := inv.materialize(today, src, l); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	if l.Len() != 4 {
		t.Fatalf("Len = %d, want 4", l.Len())
	}
	// No quote on the 10th: the buy executes at the next available price,
	// 100 per share, so each $250 occurrence buys 2.5 shares.
	if !l.TotalVolume().Equal(Q(10)) {
		t.Errorf("TotalVolume = %s, want 10", l.TotalVolume())
	}
	pending := l.Pending()
	if len(pending) != 1 {
		t.Fatalf("Pending = %v, want one entry", pending)
	}
	if want := NewDate(2025, time.July, 10); pending[0].First() != want {
		t.Errorf("pending occurrence = %s, want %s", pending[0].First(), want)
	}
}

// An expired schedule expands its occurrences and leaves nothing pending.
func TestMaterialize_RecurringExpired(t *testing.T) {
	src := newTestSource()
	today := NewDate(2025, time.June, 15)
	rec, err := NewRecurringEvent(Monthly, 1, NewDate(2025, time.May, 31))
	if err != nil {
		t.Fatalf("NewRecurringEvent: %v", err)
	}
	l := NewLedger(apple)

	inv, err := NewDollarCostInvestment(NewDate(2025, time.March, 10), USD(250), USD(1), &rec)
	if err != nil {
		t.Fatalf("NewDollarCostInvestment: %v", err)
	}
	if err := inv.materialize(today, src, l); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	if l.Len() != 3 {
		t.Errorf("Len = %d, want 3", l.Len())
	}
	if pending := l.Pending(); len(pending) != 0 {
		t.Errorf("Pending = %v, want none", pending)
	}
}

// The pending occurrence projects forward into the cost basis of a future
// date, answering "how much will I have put in by then".
func TestCostBasis_ProjectsPending(t *testing.T) {
	src := newTestSource()
	today := NewDate(2025, time.June, 15)
	rec, err := NewRecurringEvent(Monthly, 1, Date{})
	if err != nil {
		t.Fatalf("NewRecurringEvent: %v", err)
	}
	l := NewLedger(apple)

	inv, err := NewDollarCostInvestment(NewDate(2025, time.March, 10), USD(250), USD(1), &rec)
	if err != nil {
		t.Fatalf("NewDollarCostInvestment: %v", err)
	}
	if err := inv.materialize(today, src, l); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	// 4 executed occurrences at $250 + $1 fee each.
	executed := USD(1004)
	if got := l.CostBasisAsOf(today, today); !got.Equal(executed) {
		t.Errorf("CostBasisAsOf(today) = %s, want %s", got, executed)
	}
	// By Sep 1 the pending schedule will have run on Jul 10 and Aug 10.
	want := executed.Add(USD(502))
	if got := l.CostBasisAsOf(NewDate(2025, time.September, 1), today); !got.Equal(want) {
		t.Errorf("CostBasisAsOf(Sep 1) = %s, want %s", got, want)
	}
}

func TestValidateAllocation(t *testing.T) {
	w := func(pairs ...any) map[string]decimal.Decimal {
		m := make(map[string]decimal.Decimal)
		for i := 0; i < len(pairs); i += 2 {
			m[pairs[i].(string)] = decimal.NewFromFloat(pairs[i+1].(float64))
		}
		return m
	}
	tests := []struct {
		name    string
		weights map[string]decimal.Decimal
		err     bool
	}{
		{"even split", w("AAPL", 50.0, "GOOG", 50.0), false},
		{"fractional split", w("AAPL", 33.5, "GOOG", 66.5), false},
		{"single", w("AAPL", 100.0), false},
		{"empty", w(), true},
		{"zero weight", w("AAPL", 0.0, "GOOG", 100.0), true},
		{"negative weight", w("AAPL", -10.0, "GOOG", 110.0), true},
		{"sum below 100", w("AAPL", 50.0, "GOOG", 49.0), true},
		{"sum above 100", w("AAPL", 50.0, "GOOG", 51.0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAllocation(tt.weights)
			if (err != nil) != tt.err {
				t.Errorf("ValidateAllocation = %v, want error %v", err, tt.err)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}
