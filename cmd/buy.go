package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
)

type buyCmd struct {
	name   string
	symbol string
	volume string
	fee    string
	date   string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record the purchase of an instrument" }
func (*buyCmd) Usage() string {
	return `sfl buy -n <portfolio> -s <symbol> -v <volume> [-c <fee>] [-d <date>]

  Records a buy at the given date's market price, creating the instrument's
  ledger on first purchase.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name.")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol.")
	f.StringVar(&c.volume, "v", "", "Number of shares to buy.")
	f.StringVar(&c.fee, "c", "0", "Commission fee.")
	f.StringVar(&c.date, "d", "", "Transaction date (YYYY-MM-DD), defaults to today.")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDateFlag(c.date)
	if err != nil {
		return fail(err)
	}
	volume, err := stockfolio.ParseQuantity(c.volume)
	if err != nil {
		return fail(err)
	}
	fee, err := stockfolio.ParseMoney(c.fee)
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
	if err := p.Buy(on, c.symbol, volume, fee); err != nil {
		return fail(err)
	}
	if err := s.save(); err != nil {
		return fail(err)
	}
	fmt.Printf("Bought %s %s in %s on %s\n", c.volume, c.symbol, c.name, on)
	return subcommands.ExitSuccess
}
