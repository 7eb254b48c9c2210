package stockfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPortfolio_Rebalance(t *testing.T) {
	src := newTestSource()
	today := NewDate(2025, time.June, 15)
	p, err := NewPortfolioWithClock("retire", src, fixedClock(today))
	if err != nil {
		t.Fatalf("NewPortfolioWithClock: %v", err)
	}
	// 10 AAPL at 100 = $1000 and no GOOG yet.
	if err := p.Buy(NewDate(2025, time.March, 1), "AAPL", Q(10), USD(0)); err != nil {
		t.Fatalf("Buy: %v", err)
	}

	on := NewDate(2025, time.June, 1)
	records, err := p.Rebalance(on, map[string]decimal.Decimal{
		"AAPL": decimal.NewFromInt(60),
		"GOOG": decimal.NewFromInt(40),
	})
	if err != nil {
		t.Fatalf("Rebalance: %v", err)
	}

	// Total value $1000: AAPL trimmed to $600, GOOG opened at $400.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Symbol != "AAPL" || !records[0].Amount.Equal(USD(-400)) {
		t.Errorf("records[0] = %s %s, want AAPL -400", records[0].Symbol, records[0].Amount)
	}
	if records[1].Symbol != "GOOG" || !records[1].Amount.Equal(USD(400)) {
		t.Errorf("records[1] = %s %s, want GOOG 400", records[1].Symbol, records[1].Amount)
	}

	// Positions after: 6 AAPL at 100, 1.6 GOOG at 250.
	if got := p.Ledger("AAPL").VolumeAsOf(on); !got.Equal(Q(6)) {
		t.Errorf("AAPL volume = %s, want 6", got)
	}
	if got := p.Ledger("GOOG").VolumeAsOf(on); !got.Equal(Q(1.6)) {
		t.Errorf("GOOG volume = %s, want 1.6", got)
	}
	value, err := p.ValueAsOf(on)
	if err != nil {
		t.Fatalf("ValueAsOf: %v", err)
	}
	if !value.Equal(USD(1000)) {
		t.Errorf("value after rebalance = %s, want 1000", value)
	}
}

// A weight of zero liquidates the instrument's position.
func TestPortfolio_Rebalance_ZeroWeightLiquidates(t *testing.T) {
	src := newTestSource()
	today := NewDate(2025, time.June, 15)
	p, err := NewPortfolioWithClock("retire", src, fixedClock(today))
	if err != nil {
		t.Fatalf("NewPortfolioWithClock: %v", err)
	}
	if err := p.Buy(NewDate(2025, time.March, 1), "AAPL", Q(10), USD(0)); err != nil {
		t.Fatalf("Buy: %v", err)
	}

	on := NewDate(2025, time.June, 1)
	if _, err := p.Rebalance(on, map[string]decimal.Decimal{"AAPL": decimal.Zero}); err != nil {
		t.Fatalf("Rebalance: %v", err)
	}
	if got := p.Ledger("AAPL").VolumeAsOf(on); !got.IsZero() {
		t.Errorf("AAPL volume = %s, want 0", got)
	}
}

func TestPortfolio_Rebalance_RejectsNegativeWeight(t *testing.T) {
	src := newTestSource()
	p, err := NewPortfolioWithClock("retire", src, fixedClock(NewDate(2025, time.June, 15)))
	if err != nil {
		t.Fatalf("NewPortfolioWithClock: %v", err)
	}
	_, err = p.Rebalance(NewDate(2025, time.June, 1), map[string]decimal.Decimal{
		"AAPL": decimal.NewFromInt(-10),
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("error = %v, want ErrInvalidArgument", err)
	}
}

// A failing leg rolls back the legs already applied.
func TestPortfolio_Rebalance_Atomic(t *testing.T) {
	src := newTestSource()
	today := NewDate(2025, time.June, 15)
	p, err := NewPortfolioWithClock("retire", src, fixedClock(today))
	if err != nil {
		t.Fatalf("NewPortfolioWithClock: %v", err)
	}
	if err := p.Buy(NewDate(2025, time.March, 1), "AAPL", Q(10), USD(0)); err != nil {
		t.Fatalf("Buy: %v", err)
	}

	on := NewDate(2025, time.June, 1)
	// ZZZ is unknown to the source; its leg fails after AAPL's was applied.
	_, err = p.Rebalance(on, map[string]decimal.Decimal{
		"AAPL": decimal.NewFromInt(60),
		"ZZZ":  decimal.NewFromInt(40),
	})
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("error = %v, want ErrUnknownSymbol", err)
	}

	// The AAPL trim must have been rolled back.
	if got := p.Ledger("AAPL").VolumeAsOf(on); !got.Equal(Q(10)) {
		t.Errorf("AAPL volume = %s, want 10", got)
	}
	if got := p.Symbols(); len(got) != 1 || got[0] != "AAPL" {
		t.Errorf("Symbols = %v, want [AAPL]", got)
	}
}
