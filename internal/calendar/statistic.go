package calendar

import "fmt"

// Statistic counts day kinds over a day sequence
type Statistic struct {
	Holidays    int
	WorkDays    int
	Weekends    int
	Preholidays int
}

// RestDays returns holidays plus weekends
func (s Statistic) RestDays() int {
	return s.Holidays + s.Weekends
}

// WorkHours returns the working-time norm: 8h per workday, 7h per pre-holiday day
func (s Statistic) WorkHours() int {
	return s.WorkDays*WorkDayHours + s.Preholidays*PreholidayHours
}

// TotalDays returns the number of counted days
func (s Statistic) TotalDays() int {
	return s.Holidays + s.WorkDays + s.Weekends + s.Preholidays
}

// Add returns the sum of two statistics
func (s Statistic) Add(other Statistic) Statistic {
	return Statistic{
		Holidays:    s.Holidays + other.Holidays,
		WorkDays:    s.WorkDays + other.WorkDays,
		Weekends:    s.Weekends + other.Weekends,
		Preholidays: s.Preholidays + other.Preholidays,
	}
}

// AsMap exports the counts. The key names are a fixed export contract,
// "prelolidays" included.
func (s Statistic) AsMap() map[string]int {
	return map[string]int{
		"holidays":    s.Holidays,
		"workdays":    s.WorkDays,
		"weekends":    s.Weekends,
		"prelolidays": s.Preholidays,
	}
}

// String renders the statistic for logs
func (s Statistic) String() string {
	return fmt.Sprintf("Statistic(holidays=%d, work_days=%d, weekends=%d, preholidays=%d)",
		s.Holidays, s.WorkDays, s.Weekends, s.Preholidays)
}

func (s *Statistic) count(kind Kind) {
	switch kind {
	case KindHoliday:
		s.Holidays++
	case KindPreholiday:
		s.Preholidays++
	case KindWork:
		s.WorkDays++
	case KindWeekend:
		s.Weekends++
	}
}
