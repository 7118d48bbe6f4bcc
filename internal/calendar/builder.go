package calendar

import (
	"slices"

	"github.com/username/production-calendar/pkg/dateutil"
)

// BuildDefault returns every date of the year classified by the weekday rule
func BuildDefault(year int) []Day {
	days := make([]Day, 0, 366)
	end := dateutil.EndOfYear(year)

	for date := dateutil.StartOfYear(year); !date.After(end); date = date.AddDate(0, 0, 1) {
		days = append(days, NewDay(date))
	}

	return days
}

// Merge overlays override records on the default sequence. Any default day
// whose date is covered by an override is replaced by it; the result is
// sorted by date. When overrides repeat a date the last record wins.
func Merge(defaults, overrides []Day) []Day {
	overrides = dedupe(overrides)

	merged := make([]Day, 0, len(defaults)+len(overrides))
	for _, d := range defaults {
		if !containsDate(overrides, d) {
			merged = append(merged, d)
		}
	}
	merged = append(merged, overrides...)

	sortDays(merged)
	return merged
}

// New builds a calendar from arbitrary days. The input is copied, sorted,
// and deduplicated by date (last record wins).
func New(days []Day) *ProductCalendar {
	sorted := dedupe(days)
	sortDays(sorted)
	return &ProductCalendar{days: sorted}
}

func containsDate(days []Day, day Day) bool {
	return slices.ContainsFunc(days, day.SameDate)
}

func dedupe(days []Day) []Day {
	result := make([]Day, 0, len(days))
	for _, d := range days {
		if i := slices.IndexFunc(result, d.SameDate); i >= 0 {
			result[i] = d
			continue
		}
		result = append(result, d)
	}
	return result
}

func sortDays(days []Day) {
	slices.SortFunc(days, func(a, b Day) int {
		return a.date.Compare(b.date)
	})
}
