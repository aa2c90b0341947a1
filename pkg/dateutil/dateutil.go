package dateutil

import (
	"fmt"
	"time"
)

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// CalendarAge is the age a person reaches during the given calendar year.
// Planning profiles count age by year, not by birthday.
func CalendarAge(birthDate time.Time, year int) int {
	return year - birthDate.Year()
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month int
}

// FromTime truncates a timestamp to its calendar month.
func FromTime(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

// Index returns year*12+month, which increases by exactly one per month.
func (ym YearMonth) Index() int {
	return ym.Year*12 + ym.Month
}

// Next returns the following calendar month.
func (ym YearMonth) Next() YearMonth {
	if ym.Month == 12 {
		return YearMonth{Year: ym.Year + 1, Month: 1}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// Before reports whether ym is earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Index() < other.Index()
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// MonthsInclusive counts the months from..to with both ends included.
// It returns 0 when to is before from.
func MonthsInclusive(from, to YearMonth) int {
	n := to.Index() - from.Index() + 1
	if n < 0 {
		return 0
	}
	return n
}

// IsValidMonth reports whether m is a calendar month number.
func IsValidMonth(m int) bool {
	return m >= 1 && m <= 12
}

// BeginningOfMonth returns the first instant of the month for a given date
func BeginningOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfYear returns the last day of the year for a given date
func EndOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 12, 31, 23, 59, 59, 999999999, date.Location())
}
