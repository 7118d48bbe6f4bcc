package overrides

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/production-calendar/internal/calendar"
	"github.com/username/production-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// DefaultXMLCalendarURL is the xmlcalendar.ru JSON feed, {year} is substituted
const DefaultXMLCalendarURL = "https://xmlcalendar.ru/data/ru/{year}/calendar.json"

// xmlCalendarYear represents xmlcalendar.ru JSON structure
type xmlCalendarYear struct {
	Year   int                `json:"year"`
	Months []xmlCalendarMonth `json:"months"`
}

type xmlCalendarMonth struct {
	Month int    `json:"month"`
	Days  string `json:"days"` // "1*,2,3+,4,8,9,..." where * = shortened, + = transferred
}

// XMLCalendarProvider derives override records from the xmlcalendar.ru feed
type XMLCalendarProvider struct {
	urlTemplate string
	fetcher     *httpFetcher
	logger      *zap.Logger
}

// NewXMLCalendarProvider creates a new XMLCalendarProvider
func NewXMLCalendarProvider(urlTemplate string, opts HTTPOptions, logger *zap.Logger) *XMLCalendarProvider {
	if urlTemplate == "" {
		urlTemplate = DefaultXMLCalendarURL
	}

	return &XMLCalendarProvider{
		urlTemplate: urlTemplate,
		fetcher:     newHTTPFetcher(opts, logger),
		logger:      logger,
	}
}

// Name implements calendar.OverridesProvider
func (p *XMLCalendarProvider) Name() string {
	return "xmlcalendar"
}

// FetchOverrides implements calendar.OverridesProvider
func (p *XMLCalendarProvider) FetchOverrides(ctx context.Context, year int) (days []calendar.Day, err error) {
	defer func(start time.Time) { observe(p.Name(), start, err) }(time.Now())

	url := strings.ReplaceAll(p.urlTemplate, "{year}", strconv.Itoa(year))
	body, err := p.fetcher.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var yearData xmlCalendarYear
	if err := json.Unmarshal(body, &yearData); err != nil {
		return nil, fmt.Errorf("failed to parse xmlcalendar JSON: %w", err)
	}
	if yearData.Year != 0 && yearData.Year != year {
		return nil, fmt.Errorf("xmlcalendar returned year %d, want %d", yearData.Year, year)
	}

	for i := range yearData.Months {
		monthDays, err := parseXMLCalendarMonth(year, &yearData.Months[i])
		if err != nil {
			return nil, err
		}
		days = append(days, monthDays...)
	}

	p.logger.Info("Overrides fetched from xmlcalendar.ru",
		zap.Int("year", year),
		zap.Int("months", len(yearData.Months)),
		zap.Int("records", len(days)))

	return days, nil
}

// parseXMLCalendarMonth parses xmlcalendar.ru compact format
// Format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened day, + = transferred day, others = weekends/holidays.
// A listed weekday is a holiday, an unlisted weekend day is a moved workday.
func parseXMLCalendarMonth(year int, xmlMonth *xmlCalendarMonth) ([]calendar.Day, error) {
	if xmlMonth.Month < 1 || xmlMonth.Month > 12 {
		return nil, fmt.Errorf("invalid month %d in xmlcalendar data", xmlMonth.Month)
	}
	month := time.Month(xmlMonth.Month)

	nonWorking := make(map[int]bool) // day → shortened
	for _, part := range strings.Split(xmlMonth.Days, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		shortened := strings.HasSuffix(part, "*")
		dayStr := strings.TrimRight(part, "*+")

		day, err := strconv.Atoi(dayStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse day number %q in month %d: %w", part, month, err)
		}
		nonWorking[day] = shortened
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	days := make([]calendar.Day, 0, len(nonWorking))

	for day := 1; day <= daysInMonth; day++ {
		d, err := override(year, month, day, calendar.KindWork)
		if err != nil {
			return nil, err
		}
		weekend := dateutil.IsWeekend(d.Date())

		shortened, listed := nonWorking[day]
		switch {
		case listed && shortened:
			days = append(days, d.WithKind(calendar.KindPreholiday))
		case listed && !weekend:
			days = append(days, d.WithKind(calendar.KindHoliday))
		case !listed && weekend:
			days = append(days, d)
		}
	}

	return days, nil
}
