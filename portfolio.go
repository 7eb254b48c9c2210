package stockfolio

import (
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/shopspring/decimal"
)

// nameRegex validates portfolio names: a non-blank word token.
var nameRegex = regexp.MustCompile(`^\w+$`)

// Clock supplies the current date. Production code uses Today; tests inject
// a fixed date to keep the engine deterministic.
type Clock func() Date

// Holding is one line of a portfolio composition: an instrument and the net
// volume held.
type Holding struct {
	Instrument Instrument
	Volume     Quantity
}

// Portfolio is a named collection of ledgers keyed by instrument symbol.
// Ledgers are added the first time an instrument is bought or invested in;
// symbols keep their first-seen order for display.
//
// All operations take a single portfolio-wide lock: rebalancing and
// cost-basis projection read across ledgers and must observe a consistent
// snapshot. The injected clock is read exactly once per operation.
type Portfolio struct {
	mu      sync.Mutex
	name    string
	symbols []string // first-seen display order
	ledgers map[string]*Ledger
	src     PriceSource
	now     Clock
}

// NewPortfolio creates an empty portfolio using Today as its clock.
// The name must be a non-blank word token.
func NewPortfolio(name string, src PriceSource) (*Portfolio, error) {
	return NewPortfolioWithClock(name, src, Today)
}

// NewPortfolioWithClock creates an empty portfolio with an injected clock.
func NewPortfolioWithClock(name string, src PriceSource, now Clock) (*Portfolio, error) {
	if !nameRegex.MatchString(name) {
		return nil, fmt.Errorf("%w: portfolio name %q must be a non-blank word", ErrInvalidArgument, name)
	}
	return &Portfolio{
		name:    name,
		ledgers: make(map[string]*Ledger),
		src:     src,
		now:     now,
	}, nil
}

// Name returns the portfolio name.
func (p *Portfolio) Name() string { return p.name }

// Symbols returns the instrument symbols in first-seen order.
func (p *Portfolio) Symbols() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.symbols))
	copy(out, p.symbols)
	return out
}

// Ledger returns the ledger for a symbol, or nil if the portfolio holds none.
func (p *Portfolio) Ledger(symbol string) *Ledger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ledgers[symbol]
}

// ledger returns the existing ledger for a symbol or creates one, resolving
// the instrument reference from the price source. Callers hold the lock.
func (p *Portfolio) ledger(symbol string) (*Ledger, error) {
	if l, ok := p.ledgers[symbol]; ok {
		return l, nil
	}
	inst, err := p.src.Stock(symbol)
	if err != nil {
		return nil, err
	}
	l := NewLedger(inst)
	p.ledgers[symbol] = l
	p.symbols = append(p.symbols, symbol)
	return l, nil
}

// checkTradable verifies that a transaction date falls inside the
// instrument's tradeable window: on or after its IPO date and, when set, on
// or before its delisting date.
func (p *Portfolio) checkTradable(symbol string, on Date) error {
	ipo, err := p.src.IPODate(symbol)
	if err != nil {
		return err
	}
	if on.Before(ipo) {
		return fmt.Errorf("%w: %s is before the IPO date %s of %s", ErrInvalidArgument, on, ipo, symbol)
	}
	delisting, err := p.src.DelistingDate(symbol)
	if err != nil {
		return err
	}
	if !delisting.IsZero() && on.After(delisting) {
		return fmt.Errorf("%w: %s is after the delisting date %s of %s", ErrInvalidArgument, on, delisting, symbol)
	}
	return nil
}

// Buy records the purchase of a volume of an instrument on a date, at that
// date's unit price, creating the instrument's ledger on first buy.
func (p *Portfolio) Buy(on Date, symbol string, volume Quantity, fee Money) error {
	if !volume.IsPositive() {
		return fmt.Errorf("%w: buy volume must be positive, got %s", ErrInvalidArgument, volume)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trade(on, symbol, volume, fee)
}

// Sell records the sale of a volume of an instrument on a date, at that
// date's unit price. Selling more than is held as of that date fails with
// ErrInvalidState and leaves the ledger unchanged.
func (p *Portfolio) Sell(on Date, symbol string, volume Quantity, fee Money) error {
	if !volume.IsPositive() {
		return fmt.Errorf("%w: sell volume must be positive, got %s", ErrInvalidArgument, volume)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.ledgers[symbol]; !ok {
		return fmt.Errorf("%w: cannot sell %s, never bought", ErrInvalidState, symbol)
	}
	return p.trade(on, symbol, volume.Neg(), fee)
}

// trade validates the date window, prices the transaction and inserts it.
// Callers hold the lock and have validated the volume sign.
func (p *Portfolio) trade(on Date, symbol string, volume Quantity, fee Money) error {
	if err := p.checkTradable(symbol, on); err != nil {
		return err
	}
	l, err := p.ledger(symbol)
	if err != nil {
		return err
	}
	price, err := p.src.Price(symbol, on, false)
	if err != nil {
		return err
	}
	return l.Insert(NewTransaction(on, volume, price, fee))
}

// Invest schedules a dollar-cost investment of a fixed amount into one
// instrument, expanding every occurrence up to the current date into ledger
// transactions and retaining the next occurrence as pending. The expansion
// is atomic: a failure leaves the ledger untouched.
func (p *Portfolio) Invest(first Date, symbol string, amount, fee Money, recurring *RecurringEvent) error {
	inv, err := NewDollarCostInvestment(first, amount, fee, recurring)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	today := p.now()

	if err := p.checkTradable(symbol, first); err != nil {
		return err
	}
	l, err := p.ledger(symbol)
	if err != nil {
		return err
	}
	saved := l.snapshot()
	if err := inv.materialize(today, p.src, l); err != nil {
		l.restore(saved)
		return err
	}
	return nil
}

// InvestAllocation splits a fixed amount across several instruments by
// percentage weight and schedules a dollar-cost investment per instrument.
// Weights must each be positive and sum to exactly 100; the commission fee
// is charged per instrument per occurrence. The whole allocation is atomic.
func (p *Portfolio) InvestAllocation(first Date, total, fee Money, weights map[string]decimal.Decimal, recurring *RecurringEvent) error {
	if err := ValidateAllocation(weights); err != nil {
		return err
	}
	if !total.IsPositive() {
		return fmt.Errorf("%w: investment amount must be positive, got %s", ErrInvalidArgument, total)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	today := p.now()

	hundred := Q(100)
	saved := p.snapshotAll()
	for _, symbol := range sortedKeys(weights) {
		amount := total.Mul(Q(weights[symbol])).Div(hundred)
		inv, err := NewDollarCostInvestment(first, amount, fee, recurring)
		if err != nil {
			p.restoreAll(saved)
			return err
		}
		if err := p.checkTradable(symbol, first); err != nil {
			p.restoreAll(saved)
			return err
		}
		l, err := p.ledger(symbol)
		if err != nil {
			p.restoreAll(saved)
			return err
		}
		if err := inv.materialize(today, p.src, l); err != nil {
			p.restoreAll(saved)
			return err
		}
	}
	return nil
}

// Composition returns the instruments and net volumes held at the end of the
// given date, in first-seen display order. Instruments with no position as
// of that date are reported with zero volume.
func (p *Portfolio) Composition(on Date) []Holding {
	p.mu.Lock()
	defer p.mu.Unlock()
	holdings := make([]Holding, 0, len(p.symbols))
	for _, symbol := range p.symbols {
		l := p.ledgers[symbol]
		holdings = append(holdings, Holding{Instrument: l.Instrument(), Volume: l.VolumeAsOf(on)})
	}
	return holdings
}

// ValueAsOf returns the total market value of the portfolio at the end of
// the given date. A date strictly after the current date fails with
// ErrFutureDate.
func (p *Portfolio) ValueAsOf(on Date) (Money, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.valueAsOf(on, p.now())
}

// valueAsOf sums ledger values. Callers hold the lock.
func (p *Portfolio) valueAsOf(on, today Date) (Money, error) {
	total := USD(0)
	for _, symbol := range p.symbols {
		_, value, err := p.ledgers[symbol].ValueAsOf(on, today, p.src)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(value)
	}
	return total, nil
}

// CostBasisAsOf returns the cumulative currency committed to the portfolio
// by the end of the given date, including projected scheduled investments
// when the date lies in the future.
func (p *Portfolio) CostBasisAsOf(on Date) Money {
	p.mu.Lock()
	defer p.mu.Unlock()
	today := p.now()
	total := USD(0)
	for _, symbol := range p.symbols {
		total = total.Add(p.ledgers[symbol].CostBasisAsOf(on, today))
	}
	return total
}

// Performance reports the portfolio values at the boundaries of a range.
// The end of the range is clamped to the current date, mirroring the chart
// sampler's bounded lookahead.
func (p *Portfolio) Performance(r Range) (Performance, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	today := p.now()
	end := r.To
	if end.After(today) {
		end = today
	}
	start, err := p.valueAsOf(r.From, today)
	if err != nil {
		return Performance{}, err
	}
	final, err := p.valueAsOf(end, today)
	if err != nil {
		return Performance{}, err
	}
	return NewPerformance(start, final), nil
}

// snapshotAll captures the state of every ledger plus the symbol order, so
// a compound mutation spanning ledgers can be rolled back.
func (p *Portfolio) snapshotAll() portfolioState {
	state := portfolioState{
		symbols: append([]string(nil), p.symbols...),
		ledgers: make(map[string]ledgerState, len(p.ledgers)),
	}
	for symbol, l := range p.ledgers {
		state.ledgers[symbol] = l.snapshot()
	}
	return state
}

func (p *Portfolio) restoreAll(state portfolioState) {
	p.symbols = state.symbols
	for symbol := range p.ledgers {
		if saved, ok := state.ledgers[symbol]; ok {
			p.ledgers[symbol].restore(saved)
		} else {
			delete(p.ledgers, symbol)
		}
	}
}

type portfolioState struct {
	symbols []string
	ledgers map[string]ledgerState
}

// record inserts an already-priced transaction, used by the CSV import to
// rebuild a ledger. The tradable-window check applies here as it does on
// Buy/Sell: a row dated outside [IPO, delisting] is rejected no matter how
// it enters. Callers outside the package go through Buy/Sell instead.
func (p *Portfolio) record(symbol string, tx Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.checkTradable(symbol, tx.When()); err != nil {
		return err
	}
	l, err := p.ledger(symbol)
	if err != nil {
		return err
	}
	return l.Insert(tx)
}

// PortfolioBuilder is a mutable construction context for assembling a
// portfolio one instrument at a time. Entries are validated and priced only
// when Build converts them into a Portfolio.
type PortfolioBuilder struct {
	name    string
	src     PriceSource
	now     Clock
	entries []builderEntry
}

type builderEntry struct {
	symbol string
	volume Quantity
}

// NewPortfolioBuilder creates a builder for a named portfolio.
func NewPortfolioBuilder(name string, src PriceSource) *PortfolioBuilder {
	return &PortfolioBuilder{name: name, src: src, now: Today}
}

// WithClock injects a clock into the built portfolio.
func (b *PortfolioBuilder) WithClock(now Clock) *PortfolioBuilder {
	b.now = now
	return b
}

// Add queues an instrument and volume. Repeating a symbol accumulates.
func (b *PortfolioBuilder) Add(symbol string, volume Quantity) *PortfolioBuilder {
	b.entries = append(b.entries, builderEntry{symbol: symbol, volume: volume})
	return b
}

// Build validates all queued entries and converts them into a portfolio
// whose ledgers hold one buy per entry dated 'on', priced from the source.
// All validation failures are reported together.
func (b *PortfolioBuilder) Build(on Date) (*Portfolio, error) {
	p, err := NewPortfolioWithClock(b.name, b.src, b.now)
	if err != nil {
		return nil, err
	}
	var errs error
	for _, e := range b.entries {
		if err := p.Buy(on, e.symbol, e.volume, USD(0)); err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s: %w", e.symbol, err))
		}
	}
	if errs != nil {
		return nil, errs
	}
	return p, nil
}
