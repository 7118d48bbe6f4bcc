package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/username/production-calendar/pkg/dateutil"
)

func date(year int, month time.Month, day int) time.Time {
	return dateutil.Date(year, month, day)
}

func holiday(year int, month time.Month, day int) Day {
	return NewDay(date(year, month, day)).WithKind(KindHoliday)
}

func preholiday(year int, month time.Month, day int) Day {
	return NewDay(date(year, month, day)).WithKind(KindPreholiday)
}

func workday(year int, month time.Month, day int) Day {
	return NewDay(date(year, month, day)).WithKind(KindWork)
}

// overrides2024 is the published 2024 Russian production calendar:
// 17 weekday holidays, 5 pre-holiday days and 2 working Saturdays.
func overrides2024() []Day {
	return []Day{
		holiday(2024, 1, 1), holiday(2024, 1, 2), holiday(2024, 1, 3),
		holiday(2024, 1, 4), holiday(2024, 1, 5), holiday(2024, 1, 8),
		preholiday(2024, 2, 22), holiday(2024, 2, 23),
		preholiday(2024, 3, 7), holiday(2024, 3, 8),
		workday(2024, 4, 27), holiday(2024, 4, 29), holiday(2024, 4, 30),
		holiday(2024, 5, 1), preholiday(2024, 5, 8), holiday(2024, 5, 9), holiday(2024, 5, 10),
		preholiday(2024, 6, 11), holiday(2024, 6, 12),
		preholiday(2024, 11, 2), holiday(2024, 11, 4),
		workday(2024, 12, 28), holiday(2024, 12, 30), holiday(2024, 12, 31),
	}
}

func calendar2024() *ProductCalendar {
	return &ProductCalendar{days: Merge(BuildDefault(2024), overrides2024())}
}

// fakeProvider serves fixed overrides and counts fetches per year
type fakeProvider struct {
	mu    sync.Mutex
	days  map[int][]Day
	err   error
	delay time.Duration
	calls map[int]int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		days:  map[int][]Day{2024: overrides2024()},
		calls: make(map[int]int),
	}
}

func (p *fakeProvider) Name() string {
	return "fake"
}

func (p *fakeProvider) FetchOverrides(ctx context.Context, year int) ([]Day, error) {
	p.mu.Lock()
	p.calls[year]++
	p.mu.Unlock()

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if p.err != nil {
		return nil, p.err
	}
	return p.days[year], nil
}

func (p *fakeProvider) callsFor(year int) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.calls[year]
}
