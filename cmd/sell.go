package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
)

type sellCmd struct {
	name   string
	symbol string
	volume string
	fee    string
	date   string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record the sale of an instrument" }
func (*sellCmd) Usage() string {
	return `sfl sell -n <portfolio> -s <symbol> -v <volume> [-c <fee>] [-d <date>]

  Records a sale at the given date's market price. Selling more than is held
  as of that date is rejected.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name.")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol.")
	f.StringVar(&c.volume, "v", "", "Number of shares to sell.")
	f.StringVar(&c.fee, "c", "0", "Commission fee.")
	f.StringVar(&c.date, "d", "", "Transaction date (YYYY-MM-DD), defaults to today.")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	p, err := s.get(c.name, false)
	if err != nil {
		return fail(err)
	}
	if err := p.Sell(on, c.symbol, volume, fee); err != nil {
		return fail(err)
	}
	if err := s.save(); err != nil {
		return fail(err)
	}
	fmt.Printf("Sold %s %s from %s on %s\n", c.volume, c.symbol, c.name, on)
	return subcommands.ExitSuccess
}
