package calendar

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/username/production-calendar/pkg/dateutil"
)

// Day is one calendar date with its classification.
// The weekday is always derived from the date.
type Day struct {
	date time.Time
	kind Kind
}

// NewDay creates a Day with the default weekday-based kind
func NewDay(date time.Time) Day {
	date = dateutil.StartOfDay(date)
	kind := KindWork
	if dateutil.IsWeekend(date) {
		kind = KindWeekend
	}
	return Day{date: date, kind: kind}
}

// WithKind returns a copy of the day classified as kind
func (d Day) WithKind(kind Kind) Day {
	d.kind = kind
	return d
}

// Date returns the calendar date (midnight UTC)
func (d Day) Date() time.Time {
	return d.date
}

// Year returns the year of the date
func (d Day) Year() int {
	return d.date.Year()
}

// Weekday returns the weekday of the date
func (d Day) Weekday() time.Weekday {
	return d.date.Weekday()
}

// Kind returns the day classification
func (d Day) Kind() Kind {
	return d.kind
}

// IsWorking is true for Work and Preholiday days
func (d Day) IsWorking() bool {
	return d.kind.IsWorking()
}

// WorkingHours returns 8 for a workday, 7 for a pre-holiday day, 0 otherwise
func (d Day) WorkingHours() int {
	switch d.kind {
	case KindWork:
		return WorkDayHours
	case KindPreholiday:
		return PreholidayHours
	default:
		return 0
	}
}

// SameDate reports whether both days fall on the same calendar date,
// regardless of kind. Merging and deduplication rely on this comparison.
func (d Day) SameDate(other Day) bool {
	return d.date.Equal(other.date)
}

// Equal compares date and kind
func (d Day) Equal(other Day) bool {
	return d.SameDate(other) && d.kind == other.kind
}

// String renders the day for logs
func (d Day) String() string {
	return fmt.Sprintf("Day(day=%s, kind=%s, weekday=%s)",
		dateutil.FormatDate(d.date), d.kind, dateutil.ShortWeekday(d.Weekday()))
}

// AsMap exports the day as plain strings
func (d Day) AsMap() map[string]string {
	return map[string]string{
		"weekday": dateutil.ShortWeekday(d.Weekday()),
		"day":     dateutil.FormatDate(d.date),
		"kind":    d.kind.String(),
	}
}

// DayFromMap rebuilds a Day from the output of AsMap
func DayFromMap(m map[string]string) (Day, error) {
	date, err := dateutil.ParseDate(m["day"])
	if err != nil {
		return Day{}, fmt.Errorf("invalid day: %w", err)
	}

	kind, err := ParseKind(m["kind"])
	if err != nil {
		return Day{}, err
	}

	if wd, ok := m["weekday"]; ok {
		weekday, err := dateutil.ParseShortWeekday(wd)
		if err != nil {
			return Day{}, err
		}
		if weekday != date.Weekday() {
			return Day{}, fmt.Errorf("weekday %s does not match date %s (%s)",
				wd, m["day"], dateutil.ShortWeekday(date.Weekday()))
		}
	}

	return NewDay(date).WithKind(kind), nil
}

// MarshalJSON encodes the day as {"weekday":"Mon","day":"2024-05-06","kind":"Work"}
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Weekday string `json:"weekday"`
		Day     string `json:"day"`
		Kind    string `json:"kind"`
	}{
		Weekday: dateutil.ShortWeekday(d.Weekday()),
		Day:     dateutil.FormatDate(d.date),
		Kind:    d.kind.String(),
	})
}

// UnmarshalJSON decodes the representation produced by MarshalJSON
func (d *Day) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to parse day: %w", err)
	}

	day, err := DayFromMap(m)
	if err != nil {
		return err
	}

	*d = day
	return nil
}
