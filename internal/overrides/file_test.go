package overrides

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/production-calendar/internal/calendar"
	"github.com/username/production-calendar/pkg/dateutil"
	"go.uber.org/zap/zaptest"
)

const overridesFile = `# Производственный календарь
2024-01-01 holiday Новогодние каникулы
2024-04-27 workday перенос с 29 апреля
2024-11-02 shortened
02.11.2025 preholiday

not-a-date holiday
2024-05-01 vacation
2024-05-09
2025-01-01 holiday
`

func writeOverridesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overrides.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileProvider_FetchOverrides(t *testing.T) {
	p := NewFileProvider(writeOverridesFile(t, overridesFile), zaptest.NewLogger(t))
	assert.Equal(t, "file", p.Name())

	days, err := p.FetchOverrides(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.True(t, days[0].Equal(calendar.NewDay(dateutil.Date(2024, 1, 1)).WithKind(calendar.KindHoliday)))
	assert.True(t, days[1].Equal(calendar.NewDay(dateutil.Date(2024, 4, 27)).WithKind(calendar.KindWork)))
	assert.True(t, days[2].Equal(calendar.NewDay(dateutil.Date(2024, 11, 2)).WithKind(calendar.KindPreholiday)))

	days, err = p.FetchOverrides(context.Background(), 2025)
	require.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestFileProvider_MissingYear(t *testing.T) {
	p := NewFileProvider(writeOverridesFile(t, overridesFile), zaptest.NewLogger(t))

	_, err := p.FetchOverrides(context.Background(), 2023)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2023")
}

func TestFileProvider_MissingFile(t *testing.T) {
	p := NewFileProvider(filepath.Join(t.TempDir(), "absent.txt"), zaptest.NewLogger(t))

	_, err := p.FetchOverrides(context.Background(), 2024)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		want    calendar.Kind
		wantErr bool
	}{
		{"2024-03-08 holiday", calendar.KindHoliday, false},
		{"2024-03-07 Preholiday Международный женский день", calendar.KindPreholiday, false},
		{"2024-12-28 work", calendar.KindWork, false},
		{"2024-12-28", 0, true},
		{"2024-13-01 holiday", 0, true},
		{"2024-03-08 day-off", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			day, err := parseLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, day.Kind())
		})
	}
}
