package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type valueCmd struct {
	name string
	date string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "total market value at a given date" }
func (*valueCmd) Usage() string {
	return `sfl value -n <portfolio> [-d <date>]

  Prints the market value of all holdings as of the given date, using
  each instrument's nearest known price at or before that date.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name.")
	f.StringVar(&c.date, "d", "", "As-of date, defaults to today.")
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	value, err := p.ValueAsOf(on)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("%s value on %s: %s\n", c.name, on, value)
	return subcommands.ExitSuccess
}
