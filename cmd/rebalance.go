package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type rebalanceCmd struct {
	name    string
	weights string
	date    string
}

func (*rebalanceCmd) Name() string     { return "rebalance" }
func (*rebalanceCmd) Synopsis() string { return "rebalance holdings to target weights" }
func (*rebalanceCmd) Usage() string {
	return `sfl rebalance -n <portfolio> -w SYM=PCT,SYM=PCT [-d <date>]

  Buys and sells at the given date's prices so each weighted instrument
  reaches its target share of the total portfolio value. Instruments not
  listed keep their position.
`
}

func (c *rebalanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name.")
	f.StringVar(&c.weights, "w", "", "Comma-separated SYMBOL=PERCENT target weights.")
	f.StringVar(&c.date, "d", "", "Rebalance date, defaults to today.")
}

func (c *rebalanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDateFlag(c.date)
	if err != nil {
		return fail(err)
	}
	weights, err := parseWeights(c.weights)
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
	records, err := p.Rebalance(on, weights)
	if err != nil {
		return fail(err)
	}
	if err := s.save(); err != nil {
		return fail(err)
	}

	for _, rec := range records {
		action := "buy"
		if rec.Amount.IsNegative() {
			action = "sell"
		}
		fmt.Printf("%s: %s %s (target %s%%)\n", rec.Symbol, action, rec.Amount.Abs(), rec.TargetWeight)
	}
	return subcommands.ExitSuccess
}
