package ledgerdash

import (
	"fmt"
	"iter"
	"time"
)

// Range represents a range of dates, both boundaries included.
type Range struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// NewRange creates a new date range. If 'from' is after 'to', they are swapped.
func NewRange(from, to Date) Range {
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to}
}

// MonthRange returns the calendar month containing d.
func MonthRange(d Date) Range { return Monthly.Range(d) }

// ParseRange returns the range named by a month ("2024-03") or by from/to
// dates. Dates take precedence over the month; a missing bound defaults to
// today. When all are empty, it is the current month.
func ParseRange(month, from, to string) (Range, error) {
	if from == "" && to == "" {
		if month == "" {
			return MonthRange(Today()), nil
		}
		m, err := ParseMonth(month)
		if err != nil {
			return Range{}, fmt.Errorf("invalid month: %w", err)
		}
		return MonthRange(m), nil
	}
	bounds := [2]Date{Today(), Today()}
	for i, s := range []string{from, to} {
		if s == "" {
			continue
		}
		d, err := ParseDate(s)
		if err != nil {
			return Range{}, err
		}
		bounds[i] = d
	}
	return NewRange(bounds[0], bounds[1]), nil
}

// Contains reports whether date is within r, bounds included.
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days iterates over every day of r, oldest first.
func (r Range) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := r.From; !d.After(r.To); d = d.Add(1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Len returns the number of days in r.
func (r Range) Len() int {
	if r.From.After(r.To) {
		return 0
	}
	return int(r.To.time().Sub(r.From.time())/(24*time.Hour)) + 1
}

// Periods iterates over the whole periods p that overlap r. The first and
// last ones may extend beyond r.
func (r Range) Periods(p Period) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for d := r.From; !d.After(r.To); {
			pr := p.Range(d)
			if !yield(pr) {
				return
			}
			d = pr.To.Add(1)
		}
	}
}

// Period returns the shortest calendar period that r spans exactly.
func (r Range) Period() (Period, bool) {
	for p := Daily; p <= Yearly; p++ {
		if p.Range(r.From) == r {
			return p, true
		}
	}
	return Daily, false
}

// Identifier is a short name of r: "2024-03-12", "2024-W11", "2024-03",
// "2024-Q1", "2024" for calendar periods, "from_to" otherwise.
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return r.From.String() + "_" + r.To.String()
	}
	switch p {
	case Weekly:
		year, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return r.From.Format(MonthFormat)
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), (r.From.Month()-1)/3+1)
	case Yearly:
		return r.From.Format("2006")
	default:
		return r.From.String()
	}
}

func (r Range) String() string { return r.From.String() + ".." + r.To.String() }
