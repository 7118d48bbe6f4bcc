package calendar

import (
	"fmt"
	"slices"
	"time"

	"github.com/username/production-calendar/pkg/dateutil"
)

// ProductCalendar is an ordered, duplicate-free sequence of days.
// It is never mutated after construction; every query returns a new
// calendar holding its own copy of the days.
type ProductCalendar struct {
	days []Day
}

// TotalDays returns the number of days in the calendar
func (pc *ProductCalendar) TotalDays() int {
	return len(pc.days)
}

// Days returns a copy of the day sequence
func (pc *ProductCalendar) Days() []Day {
	return slices.Clone(pc.days)
}

// At returns the day at position i
func (pc *ProductCalendar) At(i int) (Day, bool) {
	if i < 0 || i >= len(pc.days) {
		return Day{}, false
	}
	return pc.days[i], true
}

// First returns the earliest day, false if the calendar is empty
func (pc *ProductCalendar) First() (Day, bool) {
	return pc.At(0)
}

// Last returns the latest day, false if the calendar is empty
func (pc *ProductCalendar) Last() (Day, bool) {
	return pc.At(len(pc.days) - 1)
}

// Year returns the year of the first day, 0 for an empty calendar
func (pc *ProductCalendar) Year() int {
	first, ok := pc.First()
	if !ok {
		return 0
	}
	return first.Year()
}

// IsFullYear reports whether the calendar holds every date of exactly one year
func (pc *ProductCalendar) IsFullYear() bool {
	first, ok := pc.First()
	if !ok {
		return false
	}
	last, _ := pc.Last()
	year := first.Year()

	return first.Date().Equal(dateutil.StartOfYear(year)) &&
		last.Date().Equal(dateutil.EndOfYear(year)) &&
		len(pc.days) == dateutil.DaysInYear(year)
}

// AsMaps exports every day with Day.AsMap
func (pc *ProductCalendar) AsMaps() []map[string]string {
	result := make([]map[string]string, 0, len(pc.days))
	for _, d := range pc.days {
		result = append(result, d.AsMap())
	}
	return result
}

// InfoByDate returns the day for the given date
func (pc *ProductCalendar) InfoByDate(date time.Time) (Day, error) {
	i, ok := pc.index(date)
	if !ok {
		return Day{}, dateOutOfRange(date)
	}
	return pc.days[i], nil
}

// PeriodByNumberOfDays returns n consecutive days starting at date (inclusive)
func (pc *ProductCalendar) PeriodByNumberOfDays(date time.Time, n int) (*ProductCalendar, error) {
	start, ok := pc.index(date)
	if !ok {
		return nil, dateOutOfRange(date)
	}
	if n < 0 || n > len(pc.days)-start {
		return nil, exceedMaxDays(n)
	}
	return pc.sub(start, start+n), nil
}

// PeriodByNumberOfWorkDays returns the shortest window starting at date that
// contains n working (Work or Preholiday) days. Weekends and holidays inside
// the window are included but not counted.
func (pc *ProductCalendar) PeriodByNumberOfWorkDays(date time.Time, n int) (*ProductCalendar, error) {
	start, ok := pc.index(date)
	if !ok {
		return nil, dateOutOfRange(date)
	}
	if n < 0 {
		return nil, exceedMaxDays(n)
	}
	if n == 0 {
		return pc.sub(start, start), nil
	}

	counted := 0
	for i := start; i < len(pc.days); i++ {
		if !pc.days[i].IsWorking() {
			continue
		}
		counted++
		if counted == n {
			return pc.sub(start, i+1), nil
		}
	}

	return nil, fmt.Errorf("%w: only %d of %d working days remain after %s",
		ErrExceedMaxDays, counted, n, dateutil.FormatDate(date))
}

// NextWorkDay returns the first working day strictly after date
func (pc *ProductCalendar) NextWorkDay(date time.Time) (Day, error) {
	start, ok := pc.index(date)
	if !ok {
		return Day{}, dateOutOfRange(date)
	}

	for _, d := range pc.days[start+1:] {
		if d.IsWorking() {
			return d, nil
		}
	}

	return Day{}, fmt.Errorf("%w: no working day after %s", ErrDateOutOfRange, dateutil.FormatDate(date))
}

// PeriodSlice returns the days from start to end inclusive
func (pc *ProductCalendar) PeriodSlice(start, end time.Time) (*ProductCalendar, error) {
	from, ok := pc.index(start)
	if !ok {
		return nil, dateOutOfRange(start)
	}
	to, ok := pc.index(end)
	if !ok {
		return nil, dateOutOfRange(end)
	}
	if from > to {
		return nil, fmt.Errorf("%w: start %s is after end %s",
			ErrDateOutOfRange, dateutil.FormatDate(start), dateutil.FormatDate(end))
	}
	return pc.sub(from, to+1), nil
}

// ExtractDatesInQuarter returns the days of quarter 1..4. Q1 holds the first
// 90 days of a leap year or 89 of a common one, Q2 and Q3 the next 92 each
// and Q4 the rest. The calendar must hold a complete year.
func (pc *ProductCalendar) ExtractDatesInQuarter(quarter int) (*ProductCalendar, error) {
	if quarter < 1 || quarter > 4 {
		return nil, fmt.Errorf("%w: %d, must be between 1 and 4", ErrInvalidQuarter, quarter)
	}
	if !pc.IsFullYear() {
		return nil, fmt.Errorf("%w: quarter %d needs all days of the year, have %d",
			ErrNotFullYear, quarter, len(pc.days))
	}

	q1 := 89
	if dateutil.IsLeapYear(pc.Year()) {
		q1 = 90
	}
	bounds := [5]int{0, q1, q1 + 92, q1 + 184, len(pc.days)}

	return pc.sub(bounds[quarter-1], bounds[quarter]), nil
}

// ByKind returns the days of the given kind, in order
func (pc *ProductCalendar) ByKind(kind Kind) *ProductCalendar {
	days := make([]Day, 0, len(pc.days))
	for _, d := range pc.days {
		if d.Kind() == kind {
			days = append(days, d)
		}
	}
	return &ProductCalendar{days: days}
}

// Statistic counts the day kinds of the calendar
func (pc *ProductCalendar) Statistic() Statistic {
	var stat Statistic
	for _, d := range pc.days {
		stat.count(d.Kind())
	}
	return stat
}

// AfterNthWeeks returns the day weeks*7 positions after date
func (pc *ProductCalendar) AfterNthWeeks(date time.Time, weeks int) (Day, error) {
	start, ok := pc.index(date)
	if !ok {
		return Day{}, dateOutOfRange(date)
	}

	// bounds are checked before multiplying so large counts cannot wrap
	if weeks > (len(pc.days)-1-start)/7 || weeks < -start/7 {
		return Day{}, fmt.Errorf("%w: %d weeks after %s",
			ErrExceedMaxDays, weeks, dateutil.FormatDate(date))
	}
	return pc.days[start+weeks*7], nil
}

func (pc *ProductCalendar) index(date time.Time) (int, bool) {
	date = dateutil.StartOfDay(date)
	return slices.BinarySearchFunc(pc.days, date, func(d Day, t time.Time) int {
		return d.date.Compare(t)
	})
}

func (pc *ProductCalendar) sub(from, to int) *ProductCalendar {
	return &ProductCalendar{days: slices.Clone(pc.days[from:to])}
}
