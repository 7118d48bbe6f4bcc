package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Provider types accepted in calendar.provider and calendar.fallback
const (
	ProviderConsultant  = "consultant"
	ProviderIsDayOff    = "isdayoff"
	ProviderXMLCalendar = "xmlcalendar"
	ProviderFile        = "file"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Daemon   DaemonConfig   `mapstructure:"daemon"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig represents override source configuration
type CalendarConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=consultant isdayoff xmlcalendar file"`
	Fallback string `mapstructure:"fallback" validate:"omitempty,oneof=consultant isdayoff xmlcalendar file,nefield=Provider"` // Optional, used when provider fails

	ConsultantURL  string `mapstructure:"consultant_url" validate:"omitempty,url"`
	IsDayOffURL    string `mapstructure:"isdayoff_url" validate:"omitempty,url"`
	XMLCalendarURL string `mapstructure:"xmlcalendar_url"` // {year} is substituted
	File           string `mapstructure:"file"`

	HTTPTimeout       string  `mapstructure:"http_timeout"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	MinYear           int     `mapstructure:"min_year" validate:"gte=2015"`
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	Listen    string `mapstructure:"listen"`     // HTTP address of the API, empty disables it
	DailyTime string `mapstructure:"daily_time"` // Time of the daily cache warm-up (HH:MM, MSK timezone)
	WarmYears int    `mapstructure:"warm_years" validate:"gte=1,lte=20"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"` // Empty means stderr
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Load loads configuration from file. With an empty path the standard
// locations are searched and a missing file yields the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.prodcal")
		v.AddConfigPath("/etc/prodcal")
	}

	// PRODCAL_CALENDAR_PROVIDER overrides calendar.provider
	v.SetEnvPrefix("PRODCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.provider", ProviderConsultant)
	v.SetDefault("calendar.fallback", "")
	v.SetDefault("calendar.consultant_url", "https://www.consultant.ru/law/ref/calendar/proizvodstvennye")
	v.SetDefault("calendar.isdayoff_url", "https://isdayoff.ru")
	v.SetDefault("calendar.xmlcalendar_url", "https://xmlcalendar.ru/data/ru/{year}/calendar.json")
	v.SetDefault("calendar.file", "")
	v.SetDefault("calendar.http_timeout", "10s")
	v.SetDefault("calendar.requests_per_second", 1.0)
	v.SetDefault("calendar.min_year", 2015)
	v.SetDefault("daemon.listen", ":8080")
	v.SetDefault("daemon.daily_time", "03:00")
	v.SetDefault("daemon.warm_years", 2)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}

	if err := c.Calendar.validateProvider("calendar.provider", c.Calendar.Provider); err != nil {
		return err
	}
	if c.Calendar.Fallback != "" {
		if err := c.Calendar.validateProvider("calendar.fallback", c.Calendar.Fallback); err != nil {
			return err
		}
	}

	if c.Calendar.HTTPTimeout != "" {
		if _, err := time.ParseDuration(c.Calendar.HTTPTimeout); err != nil {
			return fmt.Errorf("calendar.http_timeout: %w", err)
		}
	}

	return nil
}

func (c *CalendarConfig) validateProvider(key, provider string) error {
	switch provider {
	case ProviderConsultant:
		if c.ConsultantURL == "" {
			return fmt.Errorf("calendar.consultant_url is required for %s", key)
		}
	case ProviderIsDayOff:
		if c.IsDayOffURL == "" {
			return fmt.Errorf("calendar.isdayoff_url is required for %s", key)
		}
	case ProviderXMLCalendar:
		if !strings.Contains(c.XMLCalendarURL, "{year}") {
			return fmt.Errorf("calendar.xmlcalendar_url must contain {year} for %s", key)
		}
	case ProviderFile:
		if c.File == "" {
			return fmt.Errorf("calendar.file is required for %s", key)
		}
	default:
		return fmt.Errorf("%s must be 'consultant', 'isdayoff', 'xmlcalendar' or 'file', got '%s'", key, provider)
	}
	return nil
}

// GetHTTPTimeout returns the HTTP client timeout
func (c *CalendarConfig) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout == "" {
		return 10 * time.Second
	}
	duration, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

// GetDailyTime returns the configured daily warm-up time (MSK timezone)
// Returns hour and minute (0-23, 0-59). Default: 03:00
func (c *DaemonConfig) GetDailyTime() (hour, minute int) {
	if c.DailyTime == "" {
		return 3, 0
	}

	var h, m int
	_, err := fmt.Sscanf(c.DailyTime, "%d:%d", &h, &m)
	if err != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 3, 0 // Fallback to default
	}
	return h, m
}
