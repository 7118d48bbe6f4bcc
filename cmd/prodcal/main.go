package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/username/production-calendar/internal/calendar"
	"github.com/username/production-calendar/internal/config"
	"github.com/username/production-calendar/internal/overrides"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath   string
	year         int
	outputFormat string
	noColor      bool
	logger       = zap.NewNop()
	cfg          *config.Config
	service      *calendar.Service
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "prodcal",
		Short:         "Russian production calendar",
		Long:          "Classify days of a year as work days, weekends, holidays and pre-holiday days, and query periods of working time",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			switch outputFormat {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unknown output format %q, want text, json or yaml", outputFormat)
			}

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					logger = initLogger(cfg.Log.Level) // Fallback to console
					logger.Warn("Failed to open log file, logging to console",
						zap.String("file", cfg.Log.File),
						zap.Error(err))
				}
			} else {
				logger = initLogger(cfg.Log.Level)
			}

			service, err = newService(cfg, logger)
			return err
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: search ., $HOME/.prodcal, /etc/prodcal)")
	rootCmd.PersistentFlags().IntVarP(&year, "year", "y", 0, "Calendar year (default: current year)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatText, "Output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		daysCmd(),
		statCmd(),
		infoCmd(),
		todayCmd(),
		periodCmd(),
		nextCmd(),
		sliceCmd(),
		quarterCmd(),
		weeksCmd(),
		extendCmd(),
		serveCmd(),
	)

	return rootCmd
}

// newService wires the configured override source into a calendar service
func newService(cfg *config.Config, logger *zap.Logger) (*calendar.Service, error) {
	provider, err := newProvider(&cfg.Calendar, cfg.Calendar.Provider, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Calendar.Fallback != "" {
		fallback, err := newProvider(&cfg.Calendar, cfg.Calendar.Fallback, logger)
		if err != nil {
			return nil, err
		}
		provider = overrides.NewCompositeProvider(provider, fallback, logger)
	}

	logger.Debug("Calendar service configured", zap.String("provider", provider.Name()))

	return calendar.NewService(provider, calendar.NewCache(logger), logger,
		calendar.WithMinYear(cfg.Calendar.MinYear)), nil
}

func newProvider(cfg *config.CalendarConfig, name string, logger *zap.Logger) (calendar.OverridesProvider, error) {
	opts := overrides.HTTPOptions{
		Timeout:           cfg.GetHTTPTimeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
	}

	switch name {
	case config.ProviderConsultant:
		return overrides.NewConsultantProvider(cfg.ConsultantURL, opts, logger), nil
	case config.ProviderIsDayOff:
		return overrides.NewIsDayOffProvider(cfg.IsDayOffURL, opts, logger), nil
	case config.ProviderXMLCalendar:
		return overrides.NewXMLCalendarProvider(cfg.XMLCalendarURL, opts, logger), nil
	case config.ProviderFile:
		return overrides.NewFileProvider(cfg.File, logger), nil
	default:
		return nil, fmt.Errorf("unknown calendar provider: %s", name)
	}
}

func initLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	return logger
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// lumberjack opens the file on first write, so check it up front
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	_ = f.Close()

	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core), nil
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return zapLevel
}
