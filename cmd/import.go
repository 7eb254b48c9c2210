package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
)

type importCmd struct {
	path  string
	fixed bool
	date  string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "merge portfolios from a CSV file" }
func (*importCmd) Usage() string {
	return `sfl import -f <csv file> [-fixed [-d <date>]]

  Reads portfolio groups from the file, validates each instrument against
  the price source, and merges the groups into the portfolios file. Fixed
  format positions are opened at the given date's prices. A group that
  fails validation is rejected whole; a group whose name already exists
  is rejected rather than merged.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "f", "", "CSV file to import.")
	f.BoolVar(&c.fixed, "fixed", false, "Read the fixed format (net positions).")
	f.StringVar(&c.date, "d", "", "Acquisition date for fixed positions, defaults to today.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := os.Open(c.path)
	if err != nil {
		return fail(err)
	}
	defer in.Close()

	src := priceSource()
	s, err := openStore(src)
	if err != nil {
		return fail(err)
	}

	var imported []*stockfolio.Portfolio
	if c.fixed {
		on, err := parseDateFlag(c.date)
		if err != nil {
			return fail(err)
		}
		imported, err = stockfolio.ImportFixed(in, src, on)
		if err != nil {
			return fail(err)
		}
	} else {
		imported, err = stockfolio.ImportFlexible(in, src)
		if err != nil {
			return fail(err)
		}
	}

	for _, p := range imported {
		if _, err := s.get(p.Name(), false); err == nil {
			return fail(fmt.Errorf("portfolio %q already exists in %s", p.Name(), *portfolioFile))
		}
		s.portfolios = append(s.portfolios, p)
	}
	if err := s.save(); err != nil {
		return fail(err)
	}
	fmt.Printf("imported %d portfolio(s) into %s\n", len(imported), *portfolioFile)
	return subcommands.ExitSuccess
}
