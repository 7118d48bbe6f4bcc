package overrides

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/username/production-calendar/internal/calendar"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// DefaultConsultantURL is the consultant.ru production calendar index
const DefaultConsultantURL = "https://www.consultant.ru/law/ref/calendar/proizvodstvennye"

var russianMonths = map[string]time.Month{
	"Январь":   time.January,
	"Февраль":  time.February,
	"Март":     time.March,
	"Апрель":   time.April,
	"Май":      time.May,
	"Июнь":     time.June,
	"Июль":     time.July,
	"Август":   time.August,
	"Сентябрь": time.September,
	"Октябрь":  time.October,
	"Ноябрь":   time.November,
	"Декабрь":  time.December,
}

// ConsultantProvider scrapes override records from the consultant.ru
// production calendar page of a year. Each month is a <table> with a
// ".month" caption; day cells are marked with the classes "holiday",
// "preholiday" and "work" (a working day on a weekend).
type ConsultantProvider struct {
	baseURL string
	fetcher *httpFetcher
	logger  *zap.Logger
}

// NewConsultantProvider creates a new ConsultantProvider
func NewConsultantProvider(baseURL string, opts HTTPOptions, logger *zap.Logger) *ConsultantProvider {
	if baseURL == "" {
		baseURL = DefaultConsultantURL
	}

	return &ConsultantProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: newHTTPFetcher(opts, logger),
		logger:  logger,
	}
}

// Name implements calendar.OverridesProvider
func (p *ConsultantProvider) Name() string {
	return "consultant"
}

// FetchOverrides implements calendar.OverridesProvider
func (p *ConsultantProvider) FetchOverrides(ctx context.Context, year int) (days []calendar.Day, err error) {
	defer func(start time.Time) { observe(p.Name(), start, err) }(time.Now())

	url := fmt.Sprintf("%s/%d/", p.baseURL, year)
	body, err := p.fetcher.get(ctx, url)
	if err != nil {
		return nil, err
	}

	days, err = parseConsultantPage(year, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", url, err)
	}

	p.logger.Info("Overrides scraped from consultant.ru",
		zap.Int("year", year),
		zap.Int("records", len(days)))

	return days, nil
}

// parseConsultantPage extracts override records from the page HTML
func parseConsultantPage(year int, page []byte) ([]calendar.Day, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("invalid html: %w", err)
	}

	days := make([]calendar.Day, 0, 30)
	months := 0

	isTable := func(n *html.Node) bool { return n.DataAtom == atom.Table }

	for _, table := range findAll(doc, isTable) {
		// month tables may sit inside a layout table; only the innermost count
		if hasDescendant(table, isTable) {
			continue
		}

		caption := findFirst(table, func(n *html.Node) bool { return hasClass(n, "month") })
		if caption == nil {
			continue
		}

		name := strings.TrimSpace(textOf(caption))
		month, ok := russianMonths[name]
		if !ok {
			return nil, fmt.Errorf("unknown month %q", name)
		}
		months++

		for _, cell := range findAll(table, func(n *html.Node) bool { return n.DataAtom == atom.Td }) {
			kind, ok := cellKind(cell)
			if !ok {
				continue
			}

			text := cleanDayText(textOf(cell))
			dayNumber, err := strconv.Atoi(text)
			if err != nil {
				return nil, fmt.Errorf("%s: bad day number %q: %w", name, text, err)
			}

			day, err := override(year, month, dayNumber, kind)
			if err != nil {
				return nil, err
			}
			days = append(days, day)
		}
	}

	if months == 0 {
		return nil, fmt.Errorf("no month tables found for %d", year)
	}

	return days, nil
}

// cellKind maps the classes of a day cell to an override kind
func cellKind(cell *html.Node) (calendar.Kind, bool) {
	switch {
	case hasClass(cell, "inactive"):
		return 0, false
	case hasClass(cell, "preholiday"):
		return calendar.KindPreholiday, true
	case hasClass(cell, "holiday"):
		return calendar.KindHoliday, true
	case hasClass(cell, "work"):
		return calendar.KindWork, true
	default:
		return 0, false
	}
}

func cleanDayText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, "*", "")
	return strings.TrimSpace(s)
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			found = append(found, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func hasDescendant(n *html.Node, match func(*html.Node) bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if findFirst(c, match) != nil {
			return true
		}
	}
	return false
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	if match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := findFirst(c, match); n != nil {
			return n
		}
	}
	return nil
}
