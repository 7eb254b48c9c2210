package stockfolio

import (
	"encoding/json"
	"fmt"
	"time"
)

const readDateFormat = "2006-1-2" // Permissive read date format (allows single-digit month/day).

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02" // write date format

// CSVDateFormat is the wire format used for transaction dates in CSV files.
const CSVDateFormat = "01-02-2006" // MM-dd-yyyy

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Year returns current year.
func (d Date) Year() int { return d.y }

// Month returns the month of the date.
func (d Date) Month() time.Month { return d.m }

// Day returns current day of the month.
func (d Date) Day() int { return d.d }

// String formats the date in ISO-8601.
func (d Date) String() string { return d.time().Format(DateFormat) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Time returns the canonical time.Time for that day (midnight UTC).
func (d Date) Time() time.Time { return d.time() }

// Format returns a textual representation of the date value formatted
// according to the layout defined by the argument. See [time.Format].
func (d Date) Format(format string) string { return d.time().Format(format) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Today returns the current date. Core queries never call it directly: the
// current date is threaded in as an argument, and Today is the production clock.
func Today() Date { return NewDate(time.Now().Date()) }

// AddDays returns a new Date with the given number of days added.
func (d Date) AddDays(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// daysIn returns the number of days in a given month of a given year.
func daysIn(year int, month time.Month) int {
	// day 0 of the next month normalizes to the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths returns a new Date with the given number of months added.
//
// Unlike [time.Time.AddDate], which normalizes an overflowing day into the
// next month (Jan 31 + 1 month = Mar 2 or 3), the day of the month is clamped
// to the last existing day of the target month: Jan 31 + 1 month is Feb 28
// (or Feb 29 in a leap year). A plan anchored on the 31st therefore never
// drifts out of its month.
func (d Date) AddMonths(i int) Date {
	// Normalize year/month with a day that always exists.
	first := time.Date(d.y, d.m+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
	y, m, _ := first.Date()
	day := d.d
	if last := daysIn(y, m); day > last {
		day = last
	}
	return NewDate(y, m, day)
}

// AddYears returns a new Date with the given number of years added, clamping
// Feb 29 to Feb 28 on non-leap years.
func (d Date) AddYears(i int) Date { return d.AddMonths(12 * i) }

// Parse parses a Date from a string. It is lenient and accepts formats like "2025-7-1".
func Parse(str string) (Date, error) {
	on, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q want format %q", ErrInvalidArgument, str, DateFormat)
	}
	return NewDate(on.Date()), nil
}

// MustParse is like Parse but panics on error. For tests and literals.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// ParseCSVDate parses a transaction date in the CSV wire format (MM-dd-yyyy).
func ParseCSVDate(str string) (Date, error) {
	on, err := time.Parse(CSVDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q want format MM-dd-yyyy", ErrInvalidArgument, str)
	}
	return NewDate(on.Date()), nil
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
