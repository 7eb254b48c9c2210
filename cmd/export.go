package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
)

type exportCmd struct {
	name  string
	fixed bool
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a portfolio as CSV to stdout" }
func (*exportCmd) Usage() string {
	return `sfl export -n <portfolio> [-fixed]

  Writes the portfolio to stdout. The default flexible format keeps every
  transaction; -fixed writes one net-position row per instrument.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name.")
	f.BoolVar(&c.fixed, "fixed", false, "Use the fixed format (net positions only).")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openStore(priceSource())
	if err != nil {
		return fail(err)
	}
	p, err := s.get(c.name, false)
	if err != nil {
		return fail(err)
	}
	if c.fixed {
		err = stockfolio.ExportFixed(os.Stdout, p)
	} else {
		err = stockfolio.ExportFlexible(os.Stdout, p)
	}
	if err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
