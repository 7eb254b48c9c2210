package stockfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
)

// This file implements the CSV exchange format. It stays human readable,
// one file per export, and is easy to diff.

var fixedHeader = []string{
	"PortfolioName", "StockSymbol", "StockName", "StockExchange", "StockVolume",
}

var flexibleHeader = []string{
	"PortfolioName", "StockSymbol", "StockName", "StockExchange",
	"StockTransactionDate", "StockTransactionVolume",
	"StockTransactionPurchasePrice", "StockTransactionCommissionFees",
}

// ExportFixed writes one row per instrument with its net current position.
func ExportFixed(w io.Writer, p *Portfolio) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(fixedHeader); err != nil {
		return err
	}
	for _, symbol := range p.Symbols() {
		l := p.Ledger(symbol)
		inst := l.Instrument()
		row := []string{p.Name(), inst.Symbol(), inst.Name(), inst.Exchange(), l.TotalVolume().String()}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFlexible writes one row per transaction, in ledger date order, with
// dates in MM-dd-yyyy format.
func ExportFlexible(w io.Writer, p *Portfolio) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(flexibleHeader); err != nil {
		return err
	}
	for _, symbol := range p.Symbols() {
		l := p.Ledger(symbol)
		inst := l.Instrument()
		for _, tx := range l.Transactions() {
			row := []string{
				p.Name(), inst.Symbol(), inst.Name(), inst.Exchange(),
				tx.When().Format(CSVDateFormat),
				tx.Volume().String(),
				tx.Price().Amount().String(),
				tx.Fee().Amount().String(),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// rowGroup collects the raw rows of one portfolio-name group, in file order.
type rowGroup struct {
	name string
	rows [][]string
}

// readGroups splits CSV records into portfolio-name groups, preserving the
// order of first appearance. Header rows are matched against all columns, so
// a portfolio legitimately named "PortfolioName" still imports.
func readGroups(r io.Reader, header []string) ([]rowGroup, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // field count is validated per row for group isolation
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	var groups []rowGroup
	index := make(map[string]int)
	for _, rec := range records {
		// Header rows may repeat when several exports were concatenated.
		if slices.Equal(rec, header) {
			continue
		}
		if len(rec) == 0 {
			continue
		}
		name := rec[0]
		at, ok := index[name]
		if !ok {
			at = len(groups)
			index[name] = at
			groups = append(groups, rowGroup{name: name})
		}
		groups[at].rows = append(groups[at].rows, rec)
	}
	return groups, nil
}

// checkInstrument verifies that the name and exchange fields of a row match
// what the price source reports for the symbol.
func checkInstrument(src PriceSource, symbol, name, exchange string) (Instrument, error) {
	inst, err := src.Stock(symbol)
	if err != nil {
		return Instrument{}, err
	}
	if inst.Name() != name || inst.Exchange() != exchange {
		return Instrument{}, fmt.Errorf("%w: row declares %s as %q on %q, source reports %q on %q",
			ErrInvalidArgument, symbol, name, exchange, inst.Name(), inst.Exchange())
	}
	return inst, nil
}

// ImportFlexible rebuilds portfolios from a flexible-format CSV: one row per
// transaction. Each instrument's total volume is re-derived as the sum of
// its transaction volumes; a file whose rows would drive a position negative
// at any historical instant is rejected by the ledger insertion itself.
//
// The import is all-or-nothing per portfolio-name group: when any row of a
// group fails validation no instrument of that group is committed, but other
// groups in the same file still import. Failed groups are reported together
// in the joined error alongside the successfully imported portfolios.
func ImportFlexible(r io.Reader, src PriceSource) ([]*Portfolio, error) {
	groups, err := readGroups(r, flexibleHeader)
	if err != nil {
		return nil, err
	}

	var portfolios []*Portfolio
	var errs error
	for _, g := range groups {
		p, err := importFlexibleGroup(g, src)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("portfolio %q: %w", g.name, err))
			continue
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, errs
}

func importFlexibleGroup(g rowGroup, src PriceSource) (*Portfolio, error) {
	p, err := NewPortfolio(g.name, src)
	if err != nil {
		return nil, err
	}
	for _, rec := range g.rows {
		if len(rec) != len(flexibleHeader) {
			return nil, fmt.Errorf("%w: row has %d fields, want %d", ErrInvalidArgument, len(rec), len(flexibleHeader))
		}
		symbol := rec[1]
		if _, err := checkInstrument(src, symbol, rec[2], rec[3]); err != nil {
			return nil, err
		}
		on, err := ParseCSVDate(rec[4])
		if err != nil {
			return nil, err
		}
		volume, err := ParseQuantity(rec[5])
		if err != nil {
			return nil, err
		}
		price, err := ParseMoney(rec[6])
		if err != nil {
			return nil, err
		}
		fee, err := ParseMoney(rec[7])
		if err != nil {
			return nil, err
		}
		if err := p.record(symbol, NewTransaction(on, volume, price, fee)); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// ImportFixed rebuilds portfolios from a fixed-format CSV: one row per
// instrument declaring its net position. Each position is materialized as a
// single buy dated 'on' at that date's quote. A symbol appearing twice in
// one group is a declared-total disagreement and rejects the group. Group
// isolation works as in ImportFlexible.
func ImportFixed(r io.Reader, src PriceSource, on Date) ([]*Portfolio, error) {
	groups, err := readGroups(r, fixedHeader)
	if err != nil {
		return nil, err
	}

	var portfolios []*Portfolio
	var errs error
	for _, g := range groups {
		p, err := importFixedGroup(g, src, on)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("portfolio %q: %w", g.name, err))
			continue
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, errs
}

func importFixedGroup(g rowGroup, src PriceSource, on Date) (*Portfolio, error) {
	p, err := NewPortfolio(g.name, src)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, rec := range g.rows {
		if len(rec) != len(fixedHeader) {
			return nil, fmt.Errorf("%w: row has %d fields, want %d", ErrInvalidArgument, len(rec), len(fixedHeader))
		}
		symbol := rec[1]
		if seen[symbol] {
			return nil, fmt.Errorf("%w: symbol %s declared more than once", ErrInvalidArgument, symbol)
		}
		seen[symbol] = true
		if _, err := checkInstrument(src, symbol, rec[2], rec[3]); err != nil {
			return nil, err
		}
		volume, err := ParseQuantity(rec[4])
		if err != nil {
			return nil, err
		}
		if !volume.IsPositive() {
			return nil, fmt.Errorf("%w: declared volume for %s must be positive, got %s", ErrInvalidArgument, symbol, volume)
		}
		price, err := src.Price(symbol, on, false)
		if err != nil {
			return nil, err
		}
		if err := p.record(symbol, NewTransaction(on, volume, price, USD(0))); err != nil {
			return nil, err
		}
	}
	return p, nil
}
