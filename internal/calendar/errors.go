package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/production-calendar/pkg/dateutil"
)

var (
	// ErrInvalidYear is returned for years without published data
	ErrInvalidYear = errors.New("invalid year")

	// ErrDateOutOfRange is returned when a date is not in the calendar
	// or a range is reversed
	ErrDateOutOfRange = errors.New("date out of range")

	// ErrExceedMaxDays is returned when a window runs past the end of the calendar
	ErrExceedMaxDays = errors.New("exceeds max days")

	// ErrInvalidQuarter is returned for quarters outside 1..4
	ErrInvalidQuarter = errors.New("invalid quarter")

	// ErrNotFullYear is returned by year-shaped queries on a partial calendar
	ErrNotFullYear = errors.New("calendar is not a full year")

	// ErrProvider wraps failures of the overrides provider
	ErrProvider = errors.New("overrides provider failed")
)

func dateOutOfRange(date time.Time) error {
	return fmt.Errorf("%w: %s is not in the calendar", ErrDateOutOfRange, dateutil.FormatDate(date))
}

func exceedMaxDays(days int) error {
	return fmt.Errorf("%w: %d days", ErrExceedMaxDays, days)
}
