package calendar

import (
	"context"
	"fmt"
	"strings"
)

// Kind represents the classification of a day
type Kind int

const (
	KindWork Kind = iota + 1
	KindWeekend
	KindHoliday
	KindPreholiday
)

// Working hours of a standard and a shortened pre-holiday day
const (
	WorkDayHours    = 8
	PreholidayHours = 7
)

var kindNames = map[Kind]string{
	KindWork:       "Work",
	KindWeekend:    "Weekend",
	KindHoliday:    "Holiday",
	KindPreholiday: "Preholiday",
}

// String returns the kind name used in maps, JSON and logs
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the four known kinds
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// IsWorking is true for kinds that count as worked time
func (k Kind) IsWorking() bool {
	return k == KindWork || k == KindPreholiday
}

// ParseKind parses a kind name. Besides the canonical names it accepts the
// aliases used by override files ("workday", "shortened").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "work", "workday":
		return KindWork, nil
	case "weekend":
		return KindWeekend, nil
	case "holiday":
		return KindHoliday, nil
	case "preholiday", "shortened":
		return KindPreholiday, nil
	default:
		return 0, fmt.Errorf("unknown day kind %q", s)
	}
}

// OverridesProvider supplies authoritative override records for a year.
// Every returned Day carries an explicit kind.
type OverridesProvider interface {
	// Name identifies the provider in logs and metrics
	Name() string

	// FetchOverrides returns the override records for the given year
	FetchOverrides(ctx context.Context, year int) ([]Day, error)
}
