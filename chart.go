package stockfolio

import "iter"

// IntervalPlan supplies the sample dates between the boundaries of a range.
type IntervalPlan interface {
	Dates(r Range) iter.Seq[Date]
}

// PeriodPlan samples a range at a fixed calendar stride from its start.
type PeriodPlan struct {
	Interval Interval
	Delta    int
}

// Dates yields the start date and then every stride until the end of the
// range, inclusive.
func (p PeriodPlan) Dates(r Range) iter.Seq[Date] {
	delta := p.Delta
	if delta <= 0 {
		delta = 1
	}
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = StepDate(d, p.Interval, delta) {
			if !yield(d) {
				return
			}
		}
	}
}

// DatePlan samples a range at an explicit list of dates.
type DatePlan []Date

func (p DatePlan) Dates(r Range) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for _, d := range p {
			if !r.Contains(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// Point is one sample of a performance series.
type Point struct {
	Label string
	On    Date
	Value Money
}

// SampleValues maps a date range to a finite sequence of dated values.
//
// Planned dates strictly before 'today' are valued normally. The first
// planned date on or after 'today' is valued as of 'today' instead, emitted,
// and the series stops there: the future is never valued and the series
// carries at most one "as of today" point. The sequence is computed in one
// pass; callers needing it again recompute.
func SampleValues(r Range, plan IntervalPlan, today Date, value func(Date) (Money, error)) ([]Point, error) {
	var points []Point
	for d := range plan.Dates(r) {
		if d.Before(today) {
			v, err := value(d)
			if err != nil {
				return nil, err
			}
			points = append(points, Point{Label: d.String(), On: d, Value: v})
			continue
		}
		// Bounded lookahead: the first planned date on or after today is
		// valued as of today and ends the series.
		v, err := value(today)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{Label: today.String(), On: today, Value: v})
		break
	}
	return points, nil
}

// Chart samples the portfolio's total value over a range.
func (p *Portfolio) Chart(r Range, plan IntervalPlan) ([]Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	today := p.now()
	return SampleValues(r, plan, today, func(on Date) (Money, error) {
		return p.valueAsOf(on, today)
	})
}
