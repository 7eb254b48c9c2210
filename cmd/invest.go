package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/stockfolio/stockfolio"
)

type investCmd struct {
	name     string
	symbol   string
	weights  string
	amount   string
	fee      string
	date     string
	interval string
	every    int
	until    string
}

func (*investCmd) Name() string     { return "invest" }
func (*investCmd) Synopsis() string { return "schedule a dollar-cost investment" }
func (*investCmd) Usage() string {
	return `sfl invest -n <portfolio> (-s <symbol> | -w SYM=PCT,SYM=PCT) -a <amount> [-c <fee>] [-d <first date>] [-i daily|monthly|yearly [-every <n>] [-until <date>]]

  Invests a fixed amount into one instrument, or splits it across several by
  percentage weights summing to 100. With -i the investment recurs; every
  occurrence up to today is expanded into transactions, the next one is kept
  pending.
`
}

func (c *investCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name.")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol.")
	f.StringVar(&c.weights, "w", "", "Comma-separated SYMBOL=PERCENT weights, summing to 100.")
	f.StringVar(&c.amount, "a", "", "Fixed currency amount per occurrence.")
	f.StringVar(&c.fee, "c", "0", "Commission fee per instrument per occurrence.")
	f.StringVar(&c.date, "d", "", "First occurrence date, defaults to today.")
	f.StringVar(&c.interval, "i", "", "Recurrence interval (daily, monthly, yearly). One-shot when empty.")
	f.IntVar(&c.every, "every", 1, "Number of intervals between occurrences.")
	f.StringVar(&c.until, "until", "", "Last date an occurrence may fall on.")
}

func parseWeights(s string) (map[string]decimal.Decimal, error) {
	weights := make(map[string]decimal.Decimal)
	for _, pair := range strings.Split(s, ",") {
		symbol, pct, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return nil, fmt.Errorf("invalid weight %q, want SYMBOL=PERCENT", pair)
		}
		w, err := decimal.NewFromString(pct)
		if err != nil {
			return nil, fmt.Errorf("invalid percent %q for %s", pct, symbol)
		}
		weights[symbol] = w
	}
	return weights, nil
}

func (c *investCmd) recurring() (*stockfolio.RecurringEvent, error) {
	if c.interval == "" {
		return nil, nil
	}
	iv, err := stockfolio.ParseInterval(c.interval)
	if err != nil {
		return nil, err
	}
	var end stockfolio.Date
	if c.until != "" {
		if end, err = stockfolio.Parse(c.until); err != nil {
			return nil, err
		}
	}
	rec, err := stockfolio.NewRecurringEvent(iv, c.every, end)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *investCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	first, err := parseDateFlag(c.date)
	if err != nil {
		return fail(err)
	}
	amount, err := stockfolio.ParseMoney(c.amount)
	if err != nil {
		return fail(err)
	}
	fee, err := stockfolio.ParseMoney(c.fee)
	if err != nil {
		return fail(err)
	}
	rec, err := c.recurring()
	if err != nil {
		return fail(err)
	}

	s, err := openStore(priceSource())
	if err != nil {
		return fail(err)
	}
	p, err := s.get(c.name, true)
	if err != nil {
		return fail(err)
	}

	switch {
	case c.symbol != "" && c.weights != "":
		return fail(fmt.Errorf("-s and -w cannot be used together"))
	case c.symbol != "":
		err = p.Invest(first, c.symbol, amount, fee, rec)
	case c.weights != "":
		var weights map[string]decimal.Decimal
		if weights, err = parseWeights(c.weights); err == nil {
			err = p.InvestAllocation(first, amount, fee, weights, rec)
		}
	default:
		return fail(fmt.Errorf("one of -s or -w is required"))
	}
	if err != nil {
		return fail(err)
	}
	if err := s.save(); err != nil {
		return fail(err)
	}
	fmt.Printf("Invested %s in %s starting %s\n", amount, c.name, first)
	return subcommands.ExitSuccess
}
