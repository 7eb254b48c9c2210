// Package cmd implements the CLI application to manage ledger-backed
// portfolios stored in flexible-format CSV files.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/phuslu/log"
	"github.com/stockfolio/stockfolio"
)

// Register the subcommands.
// A main package calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&investCmd{}, "transactions")
	c.Register(&rebalanceCmd{}, "transactions")

	c.Register(&compositionCmd{}, "reports")
	c.Register(&valueCmd{}, "reports")
	c.Register(&costBasisCmd{}, "reports")
	c.Register(&performanceCmd{}, "reports")

	c.Register(&exportCmd{}, "files")
	c.Register(&importCmd{}, "files")
}

// As a CLI application the lifecycle is very short lived, so it is ok to use
// global variables for the shared flags.

var portfolioFile = flag.String("file", "portfolios.csv", "Path to the portfolios file (flexible CSV format)")
var configFile = flag.String("config", "", "Path to the TOML config file (defaults to ~/.config/stockfolio/config.toml)")

// Setup loads the configuration and wires the logger. Called by main before
// executing a command.
func Setup() {
	cfg := loadConfig(*configFile)
	log.DefaultLogger = log.Logger{
		Level:  log.ParseLevel(cfg.LogLevel),
		Writer: &log.ConsoleWriter{Writer: os.Stderr},
	}
}

// priceSource builds the Alpha Vantage source from the loaded config.
func priceSource() stockfolio.PriceSource {
	cfg := loadConfig(*configFile)
	if cfg.APIKey == "" {
		log.Warn().Msg("no Alpha Vantage API key configured, lookups will fail")
	}
	return stockfolio.NewAlphaVantage(cfg.APIKey, cfg.CacheDir)
}

// store reads and rewrites the whole portfolios file, since one file can
// carry several portfolio-name groups.
type store struct {
	file       string
	src        stockfolio.PriceSource
	portfolios []*stockfolio.Portfolio
}

// openStore loads every portfolio group from the portfolios file. A missing
// file is an empty store. Failed groups abort: a command must not rewrite a
// file it could not fully read.
func openStore(src stockfolio.PriceSource) (*store, error) {
	s := &store{file: *portfolioFile, src: src}
	f, err := os.Open(s.file)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	portfolios, err := stockfolio.ImportFlexible(f, src)
	if err != nil {
		return nil, fmt.Errorf("cannot load %q: %w", s.file, err)
	}
	s.portfolios = portfolios
	return s, nil
}

// get returns the named portfolio, creating it when 'create' is set.
func (s *store) get(name string, create bool) (*stockfolio.Portfolio, error) {
	for _, p := range s.portfolios {
		if p.Name() == name {
			return p, nil
		}
	}
	if !create {
		return nil, fmt.Errorf("no portfolio named %q in %s", name, s.file)
	}
	p, err := stockfolio.NewPortfolio(name, s.src)
	if err != nil {
		return nil, err
	}
	s.portfolios = append(s.portfolios, p)
	return p, nil
}

// save rewrites the portfolios file with every group.
func (s *store) save() error {
	if dir := filepath.Dir(s.file); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	f, err := os.Create(s.file)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, p := range s.portfolios {
		if err := stockfolio.ExportFlexible(f, p); err != nil {
			return err
		}
	}
	return nil
}

// render displays a markdown report on the terminal.
func render(md string) subcommands.ExitStatus {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// fall back to the raw markdown
		fmt.Print(md)
		return subcommands.ExitSuccess
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

// fail prints an error and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

// parseDateFlag parses a -d style date flag, defaulting to today when empty.
func parseDateFlag(s string) (stockfolio.Date, error) {
	if s == "" {
		return stockfolio.Today(), nil
	}
	return stockfolio.Parse(s)
}
