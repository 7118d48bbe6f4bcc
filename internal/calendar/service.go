package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/username/production-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// DefaultMinYear is the first year the override source publishes
const DefaultMinYear = 2015

// Service assembles production calendars: default weekday rule plus
// overrides from the provider, cached by year.
type Service struct {
	provider OverridesProvider
	cache    *Cache
	logger   *zap.Logger
	now      func() time.Time
	minYear  int
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the clock used to resolve the current year
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithMinYear raises the earliest year that can be requested. Years before
// DefaultMinYear stay invalid.
func WithMinYear(year int) Option {
	return func(s *Service) {
		s.minYear = max(year, DefaultMinYear)
	}
}

// NewService creates a new Service
func NewService(provider OverridesProvider, cache *Cache, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		cache:    cache,
		logger:   logger,
		now:      dateutil.Today,
		minYear:  DefaultMinYear,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache returns the cache backing the service
func (s *Service) Cache() *Cache {
	return s.cache
}

// ResolveYear maps 0 to the current year and checks that the year is
// within [minYear, current year]
func (s *Service) ResolveYear(year int) (int, error) {
	current := s.now().Year()
	if year == 0 {
		return current, nil
	}
	if year < s.minYear {
		return 0, fmt.Errorf("%w: %d, data starts in %d", ErrInvalidYear, year, s.minYear)
	}
	if year > current {
		return 0, fmt.Errorf("%w: %d is after the current year %d", ErrInvalidYear, year, current)
	}
	return year, nil
}

// Calendar returns the full production calendar of year (0 = current year)
func (s *Service) Calendar(ctx context.Context, year int) (*ProductCalendar, error) {
	year, err := s.ResolveYear(year)
	if err != nil {
		return nil, err
	}

	return s.cache.GetOrBuild(ctx, year, func(ctx context.Context) (*ProductCalendar, error) {
		return s.build(ctx, year)
	})
}

// ExtendForward extends a slice of a cached year forward by days
func (s *Service) ExtendForward(slice *ProductCalendar, days int) (*ProductCalendar, error) {
	return s.cache.ExtendForward(slice, days)
}

// ExtendBackward extends a slice of a cached year backward by days
func (s *Service) ExtendBackward(slice *ProductCalendar, days int) (*ProductCalendar, error) {
	return s.cache.ExtendBackward(slice, days)
}

func (s *Service) build(ctx context.Context, year int) (*ProductCalendar, error) {
	s.logger.Debug("Fetching overrides",
		zap.String("provider", s.provider.Name()),
		zap.Int("year", year))

	overrides, err := s.provider.FetchOverrides(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("%w: %s, year %d: %w", ErrProvider, s.provider.Name(), year, err)
	}

	inYear := make([]Day, 0, len(overrides))
	for _, d := range overrides {
		if d.Year() != year || !d.Kind().Valid() {
			s.logger.Warn("Ignoring override: wrong year or missing kind",
				zap.Int("year", year),
				zap.String("day", d.String()))
			continue
		}
		inYear = append(inYear, d)
	}

	pc := &ProductCalendar{days: Merge(BuildDefault(year), inYear)}

	stat := pc.Statistic()
	s.logger.Info("Calendar assembled",
		zap.Int("year", year),
		zap.Int("overrides", len(inYear)),
		zap.Int("work_days", stat.WorkDays),
		zap.Int("holidays", stat.Holidays),
		zap.Int("preholidays", stat.Preholidays),
		zap.Int("weekends", stat.Weekends),
		zap.Int("work_hours", stat.WorkHours()))

	return pc, nil
}

// Today returns today's day from the current year's calendar
func (s *Service) Today(ctx context.Context) (Day, error) {
	pc, err := s.Calendar(ctx, 0)
	if err != nil {
		return Day{}, err
	}
	return pc.InfoByDate(dateutil.StartOfDay(s.now()))
}
