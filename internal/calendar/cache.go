package calendar

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/username/production-calendar/internal/metrics"
	"github.com/username/production-calendar/pkg/dateutil"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// BuildFunc builds the full calendar of one year
type BuildFunc func(ctx context.Context) (*ProductCalendar, error)

// Cache holds completed calendars by year. It is created once at startup
// and shared by everything that assembles calendars; entries are never
// evicted.
type Cache struct {
	years  map[int]*ProductCalendar
	mu     sync.RWMutex
	group  singleflight.Group
	logger *zap.Logger
}

// NewCache creates an empty cache
func NewCache(logger *zap.Logger) *Cache {
	return &Cache{
		years:  make(map[int]*ProductCalendar),
		logger: logger,
	}
}

// Get returns the cached calendar for year
func (c *Cache) Get(year int) (*ProductCalendar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pc, ok := c.years[year]
	return pc, ok
}

// Store puts a calendar into the cache, replacing any previous entry
func (c *Cache) Store(year int, pc *ProductCalendar) {
	c.mu.Lock()
	c.years[year] = pc
	c.mu.Unlock()
}

// Len returns the number of cached years
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.years)
}

// Years returns the cached years in ascending order
func (c *Cache) Years() []int {
	c.mu.RLock()
	years := make([]int, 0, len(c.years))
	for year := range c.years {
		years = append(years, year)
	}
	c.mu.RUnlock()

	slices.Sort(years)
	return years
}

// GetOrBuild returns the cached calendar for year, building it on a miss.
// Concurrent callers for the same year share a single build; builds of
// different years run independently. The shared build does not inherit the
// cancellation of whichever caller started it: a caller whose ctx ends stops
// waiting, the build carries on for the others.
func (c *Cache) GetOrBuild(ctx context.Context, year int, build BuildFunc) (*ProductCalendar, error) {
	if pc, ok := c.Get(year); ok {
		metrics.CacheHits.Inc()
		c.logger.Debug("Using cached calendar", zap.Int("year", year))
		return pc, nil
	}
	metrics.CacheMisses.Inc()

	buildCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.Itoa(year), func() (interface{}, error) {
		// a build that finished between Get and DoChan already stored the year
		if pc, ok := c.Get(year); ok {
			return pc, nil
		}

		pc, err := build(buildCtx)
		metrics.CalendarBuilds.WithLabelValues(metrics.ResultLabel(err)).Inc()
		if err != nil {
			return nil, err
		}

		c.Store(year, pc)
		c.logger.Info("Calendar built and cached",
			zap.Int("year", year),
			zap.Int("days", pc.TotalDays()))
		return pc, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for calendar %d: %w", year, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("Calendar build shared with concurrent caller", zap.Int("year", year))
		}
		return res.Val.(*ProductCalendar), nil
	}
}

// ExtendForward re-slices the cached full year of slice so that the result
// starts at the same day and holds days more entries.
func (c *Cache) ExtendForward(slice *ProductCalendar, days int) (*ProductCalendar, error) {
	first, full, err := c.fullYearOf(slice)
	if err != nil {
		return nil, err
	}
	if days < 0 {
		return nil, exceedMaxDays(days)
	}

	extended, err := full.PeriodByNumberOfDays(first.Date(), slice.TotalDays()+days)
	if errors.Is(err, ErrExceedMaxDays) {
		return nil, fmt.Errorf("%w: extending %s by %d days forward leaves %d",
			ErrDateOutOfRange, dateutil.FormatDate(first.Date()), days, first.Year())
	}
	return extended, err
}

// ExtendBackward re-slices the cached full year of slice so that the result
// starts days earlier and ends at the same day.
func (c *Cache) ExtendBackward(slice *ProductCalendar, days int) (*ProductCalendar, error) {
	first, full, err := c.fullYearOf(slice)
	if err != nil {
		return nil, err
	}
	if days < 0 {
		return nil, exceedMaxDays(days)
	}
	last, _ := slice.Last()

	from, ok := full.index(first.Date())
	if !ok {
		return nil, dateOutOfRange(first.Date())
	}
	to, ok := full.index(last.Date())
	if !ok {
		return nil, dateOutOfRange(last.Date())
	}

	if from-days < 0 {
		return nil, fmt.Errorf("%w: extending %s by %d days backward leaves %d",
			ErrDateOutOfRange, dateutil.FormatDate(first.Date()), days, first.Year())
	}

	return full.sub(from-days, to+1), nil
}

func (c *Cache) fullYearOf(slice *ProductCalendar) (Day, *ProductCalendar, error) {
	first, ok := slice.First()
	if !ok {
		return Day{}, nil, fmt.Errorf("%w: cannot extend an empty calendar", ErrDateOutOfRange)
	}

	full, ok := c.Get(first.Year())
	if !ok {
		return Day{}, nil, fmt.Errorf("%w: calendar for %d is not cached", ErrDateOutOfRange, first.Year())
	}

	return first, full, nil
}
