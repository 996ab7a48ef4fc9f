package ledgerdash

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DateFormat is the ISO-8601 layout used to write dates.
	DateFormat = "2006-01-02"
	// MonthFormat names a calendar month.
	MonthFormat = "2006-01"

	// lenient layout for ledger dates, single digit month and day allowed.
	ledgerDateFormat = "2006-1-2"
)

// Date is a calendar day, without time zone.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns the Date of year, month and day, normalized the way
// time.Date does: NewDate(2024, 3, 0) is the 29th of February.
func NewDate(year int, month time.Month, day int) Date {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{y, m, d}
}

// Today returns the current local date.
func Today() Date { return NewDate(time.Now().Date()) }

func (d Date) Year() int              { return d.y }
func (d Date) Month() time.Month      { return d.m }
func (d Date) Day() int               { return d.d }
func (d Date) Weekday() time.Weekday  { return d.time().Weekday() }
func (d Date) ISOWeek() (int, int)    { return d.time().ISOWeek() }
func (d Date) Format(f string) string { return d.time().Format(f) }
func (d Date) IsZero() bool           { return d == Date{} }
func (d Date) Before(x Date) bool     { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool      { return d.time().After(x.time()) }

// Add returns d shifted by n days.
func (d Date) Add(n int) Date { return NewDate(d.y, d.m, d.d+n) }

// AddMonth returns d shifted by n months.
func (d Date) AddMonth(n int) Date { return NewDate(d.y, d.m+time.Month(n), d.d) }

// String returns the ISO-8601 form of d, "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFormat)
}

// time is midnight UTC on d, so that two equal dates give equal times.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Period is a calendar period used to align report ranges.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

var periodNames = [...]string{"day", "week", "month", "quarter", "year"}

func (p Period) String() string {
	if p < 0 || int(p) >= len(periodNames) {
		return "period"
	}
	return periodNames[p]
}

// Range returns the period p containing d.
func (p Period) Range(d Date) Range { return Range{From: d.StartOf(p), To: d.EndOf(p)} }

// StartOf returns the first day of the period containing d. Weeks start on
// Monday.
func (d Date) StartOf(p Period) Date {
	switch p {
	case Daily:
		return d
	case Weekly:
		return d.Add(-((int(d.Weekday()) + 6) % 7))
	case Monthly:
		return NewDate(d.y, d.m, 1)
	case Quarterly:
		return NewDate(d.y, d.m-(d.m-1)%3, 1)
	case Yearly:
		return NewDate(d.y, time.January, 1)
	}
	panic(fmt.Sprintf("unknown period %d", p))
}

// EndOf returns the last day of the period containing d.
func (d Date) EndOf(p Period) Date {
	start := d.StartOf(p)
	switch p {
	case Daily:
		return start
	case Weekly:
		return start.Add(6)
	case Monthly:
		return start.AddMonth(1).Add(-1)
	case Quarterly:
		return start.AddMonth(3).Add(-1)
	default:
		return start.AddMonth(12).Add(-1)
	}
}

var (
	relativeDateRE = regexp.MustCompile(`^([+-])(\d+)([dwmqy])$`)
	monthRE        = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})$`)
)

// ParseDate parses a day written the ledger way ("2024-03-15", "2024/3/15")
// or relative to today: "0d" or "today", then a signed count of days, weeks,
// months, quarters or years ("-1d", "+2w", "-1m", "-1q", "+1y").
func ParseDate(str string) (Date, error) {
	str = strings.TrimSpace(str)
	if str == "0d" || str == "today" {
		return Today(), nil
	}
	if m := relativeDateRE.FindStringSubmatch(str); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return Date{}, fmt.Errorf("invalid relative date %q: %w", str, err)
		}
		if m[1] == "-" {
			n = -n
		}
		return Today().shift(n, m[3]), nil
	}
	return parseLedgerDate(str)
}

// shift moves d by n units of "d", "w", "m", "q" or "y".
func (d Date) shift(n int, unit string) Date {
	switch unit {
	case "d":
		return d.Add(n)
	case "w":
		return d.Add(7 * n)
	case "m":
		return d.AddMonth(n)
	case "q":
		return d.AddMonth(3 * n)
	default:
		return d.AddMonth(12 * n)
	}
}

// parseLedgerDate only accepts absolute dates, '-' or '/' separated.
func parseLedgerDate(str string) (Date, error) {
	t, err := time.Parse(ledgerDateFormat, strings.ReplaceAll(str, "/", "-"))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, DateFormat, err)
	}
	return NewDate(t.Date()), nil
}

// ParseMonth returns the first day of a month written "2024-03" or
// "2024/3". Any date ParseDate accepts also selects its month.
func ParseMonth(str string) (Date, error) {
	str = strings.TrimSpace(str)
	m := monthRE.FindStringSubmatch(str)
	if m == nil {
		d, err := ParseDate(str)
		if err != nil {
			return Date{}, err
		}
		return d.StartOf(Monthly), nil
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("invalid month %q", str)
	}
	return NewDate(year, time.Month(month), 1), nil
}

// UnmarshalJSON reads an absolute date, "" being the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*d = Date{}
		return nil
	}
	v, err := parseLedgerDate(str)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }
