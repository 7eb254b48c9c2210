package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type costBasisCmd struct {
	name string
	date string
}

func (*costBasisCmd) Name() string     { return "cost-basis" }
func (*costBasisCmd) Synopsis() string { return "total invested capital at a given date" }
func (*costBasisCmd) Usage() string {
	return `sfl cost-basis -n <portfolio> [-d <date>]

  Prints the cumulative purchase cost plus fees up to the given date.
  Dates past today include the projected cost of pending scheduled
  investments.
`
}

func (c *costBasisCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name.")
	f.StringVar(&c.date, "d", "", "As-of date, defaults to today.")
}

func (c *costBasisCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDateFlag(c.date)
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
	fmt.Printf("%s cost basis on %s: %s\n", c.name, on, p.CostBasisAsOf(on))
	return subcommands.ExitSuccess
}
