// Package renderer turns portfolio query results into markdown reports for
// terminal display.
package renderer

import (
	"fmt"
	"strings"

	"github.com/stockfolio/stockfolio"
)

// Composition renders the holdings of a portfolio on a date as a markdown table.
func Composition(name string, on stockfolio.Date, holdings []stockfolio.Holding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s on %s\n\n", name, on)
	fmt.Fprintln(&b, "| Symbol | Name | Exchange | Volume |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|")
	for _, h := range holdings {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			h.Instrument.Symbol(), h.Instrument.Name(), h.Instrument.Exchange(), h.Volume)
	}
	return b.String()
}

// Performance renders the boundary values and relative change of a range.
func Performance(name string, r stockfolio.Range, perf stockfolio.Performance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s performance %s to %s\n\n", name, r.From, r.To)
	fmt.Fprintln(&b, "| Start | End | Change | Return |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
		perf.Start, perf.End, perf.Change(), perf.Percent().SignedString())
	return b.String()
}

// Series renders a sampled value series as a markdown table with a relative
// bar per point, one asterisk per scale unit.
func Series(name string, points []stockfolio.Point) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s over time\n\n", name)
	if len(points) == 0 {
		fmt.Fprintln(&b, "no samples in range")
		return b.String()
	}

	max := points[0].Value.AsFloat()
	for _, p := range points[1:] {
		if v := p.Value.AsFloat(); v > max {
			max = v
		}
	}
	scale := barScale(max)

	fmt.Fprintln(&b, "| Date | Value | |")
	fmt.Fprintln(&b, "|:---|---:|:---|")
	for _, p := range points {
		n := 0
		if scale > 0 {
			n = int(p.Value.AsFloat() / scale)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", p.Label, p.Value, strings.Repeat("*", n))
	}
	fmt.Fprintf(&b, "\nscale: one `*` = %.2f\n", scale)
	return b.String()
}

// barScale picks the value of one asterisk so the longest bar stays at most
// maxBar characters wide.
func barScale(max float64) float64 {
	const maxBar = 50
	if max <= 0 {
		return 0
	}
	return max / maxBar
}
