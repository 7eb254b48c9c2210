package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio/renderer"
)

type compositionCmd struct {
	name string
	date string
}

func (*compositionCmd) Name() string     { return "composition" }
func (*compositionCmd) Synopsis() string { return "list holdings at a given date" }
func (*compositionCmd) Usage() string {
	return `sfl composition -n <portfolio> [-d <date>]

  Prints the net position of each instrument in the portfolio as of the
  given date.
`
}

func (c *compositionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name.")
	f.StringVar(&c.date, "d", "", "As-of date, defaults to today.")
}

func (c *compositionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	return render(renderer.Composition(c.name, on, p.Composition(on)))
}
