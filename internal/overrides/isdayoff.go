package overrides

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/username/production-calendar/internal/calendar"
	"github.com/username/production-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// DefaultIsDayOffURL is the isdayoff.ru API root
const DefaultIsDayOffURL = "https://isdayoff.ru"

// IsDayOffProvider derives override records from the isdayoff.ru bulk API
type IsDayOffProvider struct {
	baseURL string
	fetcher *httpFetcher
	logger  *zap.Logger
}

// NewIsDayOffProvider creates a new IsDayOffProvider
func NewIsDayOffProvider(baseURL string, opts HTTPOptions, logger *zap.Logger) *IsDayOffProvider {
	if baseURL == "" {
		baseURL = DefaultIsDayOffURL
	}

	return &IsDayOffProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: newHTTPFetcher(opts, logger),
		logger:  logger,
	}
}

// Name implements calendar.OverridesProvider
func (p *IsDayOffProvider) Name() string {
	return "isdayoff"
}

// FetchOverrides implements calendar.OverridesProvider
func (p *IsDayOffProvider) FetchOverrides(ctx context.Context, year int) (days []calendar.Day, err error) {
	defer func(start time.Time) { observe(p.Name(), start, err) }(time.Now())

	// Build URL: https://isdayoff.ru/api/getdata?year=2025&pre=1
	url := fmt.Sprintf("%s/api/getdata?year=%d&pre=1", p.baseURL, year)

	body, err := p.fetcher.get(ctx, url)
	if err != nil {
		return nil, err
	}

	bulkData := strings.TrimSpace(string(body))
	p.logger.Debug("Received bulk data",
		zap.Int("year", year),
		zap.Int("length", len(bulkData)))

	days, err = parseBulkYear(year, bulkData)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	p.logger.Info("Overrides fetched from isdayoff.ru",
		zap.Int("year", year),
		zap.Int("records", len(days)))

	return days, nil
}

// parseBulkYear turns an isdayoff.ru bulk response into override records.
// Format: one code per day of the year, where
// 0 = working day (8 hours)
// 1 = non-working day (holiday/weekend)
// 2 = shortened day (7 hours)
// Only codes that disagree with the weekday rule become overrides.
func parseBulkYear(year int, data string) ([]calendar.Day, error) {
	daysInYear := dateutil.DaysInYear(year)
	if len(data) != daysInYear {
		return nil, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInYear, len(data))
	}

	days := make([]calendar.Day, 0, 30)
	date := dateutil.StartOfYear(year)

	for i, code := range data {
		weekend := dateutil.IsWeekend(date)

		switch code {
		case '0':
			if weekend {
				days = append(days, calendar.NewDay(date).WithKind(calendar.KindWork))
			}
		case '1':
			if !weekend {
				days = append(days, calendar.NewDay(date).WithKind(calendar.KindHoliday))
			}
		case '2':
			days = append(days, calendar.NewDay(date).WithKind(calendar.KindPreholiday))
		default:
			return nil, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}

		date = date.AddDate(0, 0, 1)
	}

	return days, nil
}
