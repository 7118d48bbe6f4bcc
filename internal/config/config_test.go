package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
calendar:
  provider: isdayoff
  fallback: file
  file: ./overrides.txt
  http_timeout: 3s
  requests_per_second: 2.5
log:
  file: /var/log/prodcal.log
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderIsDayOff, cfg.Calendar.Provider)
	assert.Equal(t, ProviderFile, cfg.Calendar.Fallback)
	assert.Equal(t, "./overrides.txt", cfg.Calendar.File)
	assert.Equal(t, 3*time.Second, cfg.Calendar.GetHTTPTimeout())
	assert.Equal(t, 2.5, cfg.Calendar.RequestsPerSecond)
	assert.Equal(t, "/var/log/prodcal.log", cfg.Log.File)
	assert.Equal(t, "debug", cfg.Log.Level)

	// untouched keys keep their defaults
	assert.Equal(t, "https://isdayoff.ru", cfg.Calendar.IsDayOffURL)
	assert.Equal(t, 2015, cfg.Calendar.MinYear)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderConsultant, cfg.Calendar.Provider)
	assert.Empty(t, cfg.Calendar.Fallback)
	assert.Equal(t, 10*time.Second, cfg.Calendar.GetHTTPTimeout())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Daemon.Listen)
	assert.Equal(t, 2, cfg.Daemon.WarmYears)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PRODCAL_CALENDAR_PROVIDER", "xmlcalendar")
	t.Setenv("PRODCAL_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "calendar:\n  provider: consultant\n"))
	require.NoError(t, err)

	assert.Equal(t, ProviderXMLCalendar, cfg.Calendar.Provider)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "calendar:\n  provider: google\n"))
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Provider", verrs[0].Field())
	assert.Equal(t, "oneof", verrs[0].Tag())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Calendar: CalendarConfig{
				Provider:       ProviderConsultant,
				ConsultantURL:  "https://www.consultant.ru/law/ref/calendar/proizvodstvennye",
				IsDayOffURL:    "https://isdayoff.ru",
				XMLCalendarURL: "https://xmlcalendar.ru/data/ru/{year}/calendar.json",
				HTTPTimeout:    "10s",
				MinYear:        2015,
			},
			Daemon: DaemonConfig{WarmYears: 2},
			Log:    LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown provider", func(c *Config) { c.Calendar.Provider = "" }, true},
		{"file without path", func(c *Config) { c.Calendar.Provider = ProviderFile }, true},
		{"file with path", func(c *Config) { c.Calendar.Provider = ProviderFile; c.Calendar.File = "o.txt" }, false},
		{"xmlcalendar without placeholder", func(c *Config) {
			c.Calendar.Provider = ProviderXMLCalendar
			c.Calendar.XMLCalendarURL = "https://xmlcalendar.ru/calendar.json"
		}, true},
		{"fallback equals provider", func(c *Config) { c.Calendar.Fallback = ProviderConsultant }, true},
		{"fallback isdayoff", func(c *Config) { c.Calendar.Fallback = ProviderIsDayOff }, false},
		{"fallback file without path", func(c *Config) { c.Calendar.Fallback = ProviderFile }, true},
		{"bad timeout", func(c *Config) { c.Calendar.HTTPTimeout = "soon" }, true},
		{"negative rate", func(c *Config) { c.Calendar.RequestsPerSecond = -1 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"no warm years", func(c *Config) { c.Daemon.WarmYears = 0 }, true},
		{"min year before published data", func(c *Config) { c.Calendar.MinYear = 1899 }, true},
		{"later min year", func(c *Config) { c.Calendar.MinYear = 2020 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetHTTPTimeout(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 10 * time.Second},
		{"500ms", 500 * time.Millisecond},
		{"invalid", 10 * time.Second},
	}

	for _, tt := range tests {
		c := CalendarConfig{HTTPTimeout: tt.value}
		assert.Equal(t, tt.want, c.GetHTTPTimeout(), "value %q", tt.value)
	}
}

func TestGetDailyTime(t *testing.T) {
	tests := []struct {
		value      string
		wantHour   int
		wantMinute int
	}{
		{"", 3, 0},
		{"20:15", 20, 15},
		{"25:00", 3, 0},
		{"noon", 3, 0},
	}

	for _, tt := range tests {
		c := DaemonConfig{DailyTime: tt.value}
		h, m := c.GetDailyTime()
		assert.Equal(t, tt.wantHour, h, "value %q", tt.value)
		assert.Equal(t, tt.wantMinute, m, "value %q", tt.value)
	}
}
