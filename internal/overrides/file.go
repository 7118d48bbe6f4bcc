package overrides

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/username/production-calendar/internal/calendar"
	"github.com/username/production-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

// FileProvider reads override records from a local text file
type FileProvider struct {
	filePath string
	logger   *zap.Logger
}

// NewFileProvider creates a new FileProvider
func NewFileProvider(filePath string, logger *zap.Logger) *FileProvider {
	return &FileProvider{
		filePath: filePath,
		logger:   logger,
	}
}

// Name implements calendar.OverridesProvider
func (fp *FileProvider) Name() string {
	return "file"
}

// FetchOverrides implements calendar.OverridesProvider
func (fp *FileProvider) FetchOverrides(ctx context.Context, year int) (days []calendar.Day, err error) {
	defer func(start time.Time) { observe(fp.Name(), start, err) }(time.Now())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(fp.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open overrides file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		day, err := parseLine(line)
		if err != nil {
			fp.logger.Warn("Skipping invalid line",
				zap.String("line", line),
				zap.Error(err))
			continue
		}

		if day.Year() == year {
			days = append(days, day)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading overrides file: %w", err)
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("no overrides for %d in %s", year, fp.filePath)
	}

	fp.logger.Info("Overrides loaded from file",
		zap.String("file", fp.filePath),
		zap.Int("year", year),
		zap.Int("records", len(days)))

	return days, nil
}

// parseLine parses one record
// Format: YYYY-MM-DD kind [note]
// Example: 2025-01-01 holiday Новогодние каникулы
func parseLine(line string) (calendar.Day, error) {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return calendar.Day{}, fmt.Errorf("want \"YYYY-MM-DD kind [note]\"")
	}

	date, err := dateutil.ParseDate(parts[0])
	if err != nil {
		return calendar.Day{}, err
	}

	kind, err := calendar.ParseKind(parts[1])
	if err != nil {
		return calendar.Day{}, err
	}

	return calendar.NewDay(date).WithKind(kind), nil
}
