package dateutil

import (
	"fmt"
	"time"
)

// ISODate is the layout used for dates at every serialization boundary
const ISODate = "2006-01-02"

// Date returns the calendar date y-m-d as midnight UTC
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// StartOfDay drops the time of day and location, keeping the calendar date
func StartOfDay(date time.Time) time.Time {
	return Date(date.Year(), date.Month(), date.Day())
}

// StartOfYear returns January 1 of the given year
func StartOfYear(year int) time.Time {
	return Date(year, time.January, 1)
}

// EndOfYear returns December 31 of the given year
func EndOfYear(year int) time.Time {
	return Date(year, time.December, 31)
}

// IsLeapYear reports whether the Gregorian year has 366 days
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInYear returns 365 or 366
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// ShortWeekday returns the three-letter English weekday name ("Mon")
func ShortWeekday(weekday time.Weekday) string {
	return weekday.String()[:3]
}

// ParseShortWeekday is the inverse of ShortWeekday
func ParseShortWeekday(s string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if ShortWeekday(wd) == s || wd.String() == s {
			return wd, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(ISODate)
}

// ParseDate parses a calendar date in ISO (2006-01-02) or Russian (02.01.2006) form
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		ISODate,
		"02.01.2006",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return StartOfDay(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q, want YYYY-MM-DD", dateStr)
}

// Today returns today's local date as a timezone-less date. It is the
// default clock of calendar.Service.
func Today() time.Time {
	return StartOfDay(time.Now())
}
