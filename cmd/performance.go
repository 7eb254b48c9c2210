package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/stockfolio/stockfolio"
	"github.com/stockfolio/stockfolio/renderer"
)

type performanceCmd struct {
	name     string
	from     string
	to       string
	interval string
	every    int
	png      string
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "gain or loss over a period" }
func (*performanceCmd) Usage() string {
	return `sfl performance -n <portfolio> -from <date> [-to <date>] [-i <interval> -every <n>] [-png <file>]

  Prints the change in portfolio value between the two dates. With an
  interval the value is also sampled across the period, and -png writes
  the sampled series as a line chart.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "Portfolio name.")
	f.StringVar(&c.from, "from", "", "Period start date.")
	f.StringVar(&c.to, "to", "", "Period end date, defaults to today.")
	f.StringVar(&c.interval, "i", "", "Sampling interval: daily, monthly or yearly.")
	f.IntVar(&c.every, "every", 1, "Sample every n intervals.")
	f.StringVar(&c.png, "png", "", "Write the sampled series to this PNG file.")
}

func (c *performanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, err := stockfolio.Parse(c.from)
	if err != nil {
		return fail(err)
	}
	to, err := parseDateFlag(c.to)
	if err != nil {
		return fail(err)
	}
	r := stockfolio.NewRange(from, to)

	s, err := openStore(priceSource())
	if err != nil {
		return fail(err)
	}
	p, err := s.get(c.name, false)
	if err != nil {
		return fail(err)
	}
	perf, err := p.Performance(r)
	if err != nil {
		return fail(err)
	}
	if c.interval == "" {
		return render(renderer.Performance(c.name, r, perf))
	}

	iv, err := stockfolio.ParseInterval(c.interval)
	if err != nil {
		return fail(err)
	}
	points, err := p.Chart(r, stockfolio.PeriodPlan{Interval: iv, Delta: c.every})
	if err != nil {
		return fail(err)
	}
	if c.png != "" {
		buf, err := renderPNG(c.name, points)
		if err != nil {
			return fail(err)
		}
		if err := os.WriteFile(c.png, buf, 0o644); err != nil {
			return fail(err)
		}
		fmt.Printf("chart written to %s\n", c.png)
	}
	return render(renderer.Performance(c.name, r, perf) + renderer.Series(c.name, points))
}

// renderPNG draws the sampled values as a single line series.
func renderPNG(name string, points []stockfolio.Point) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 data points, got %d", stockfolio.ErrInvalidArgument, len(points))
	}

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, pt := range points {
		xValues[i] = pt.On.Time()
		yValues[i] = pt.Value.AsFloat()
	}

	graph := chart.Chart{
		Title:  name,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Value",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.5,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	return buf.Bytes(), nil
}
