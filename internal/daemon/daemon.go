package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/username/production-calendar/internal/calendar"
	"go.uber.org/zap"
)

// Options configures a Daemon
type Options struct {
	Listen      string // HTTP address, empty disables the API
	DailyHour   int    // Hour of the daily cache warm-up (0-23, MSK)
	DailyMinute int    // Minute of the daily cache warm-up (0-59)
	WarmYears   int    // Number of years to keep warm, counting back from the current one
}

// Daemon keeps calendars of recent years in the cache and serves them over HTTP
type Daemon struct {
	service     *calendar.Service
	opts        Options
	router      *mux.Router
	server      *http.Server
	logger      *zap.Logger
	now         func() time.Time
	mu          sync.Mutex // Protect against concurrent warm-ups
	lastRunDate string     // Track last successful warm-up date
}

var mskLocation = time.FixedZone("MSK", 3*60*60)

// New creates a new daemon instance
func New(service *calendar.Service, opts Options, logger *zap.Logger) *Daemon {
	if opts.WarmYears < 1 {
		opts.WarmYears = 1
	}

	d := &Daemon{
		service: service,
		opts:    opts,
		router:  mux.NewRouter(),
		logger:  logger,
		now:     time.Now,
	}
	d.setupRoutes()
	return d
}

// Handler returns the HTTP handler of the daemon API
func (d *Daemon) Handler() http.Handler {
	return d.router
}

// Run warms the cache, starts the API and repeats the warm-up daily until
// ctx is cancelled
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info("Daemon started",
		zap.String("listen", d.opts.Listen),
		zap.Int("daily_hour", d.opts.DailyHour),
		zap.Int("daily_minute", d.opts.DailyMinute),
		zap.Int("warm_years", d.opts.WarmYears))

	serverErr := make(chan error, 1)
	if d.opts.Listen != "" {
		d.server = &http.Server{
			Addr:              d.opts.Listen,
			Handler:           d.router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	if err := d.Warm(ctx); err != nil {
		d.logger.Error("Initial warm-up failed", zap.Error(err))
	}

	d.logger.Info("Next warm-up scheduled", zap.Time("next_run", d.calculateNextRun()))

	// Check every minute if it's time to run
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Daemon stopped")
			return d.shutdown()

		case err := <-serverErr:
			return fmt.Errorf("http server failed: %w", err)

		case now := <-ticker.C:
			if !d.shouldRunAt(now) {
				continue
			}
			if err := d.Warm(ctx); err != nil {
				d.logger.Error("Scheduled warm-up failed", zap.Error(err))
				continue
			}
			d.logger.Info("Next warm-up scheduled", zap.Time("next_run", d.calculateNextRun()))
		}
	}
}

// Warm builds the calendars of the current year and WarmYears-1 previous
// years. Years that fail are reported together, the rest stay cached.
func (d *Daemon) Warm(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	today := d.now().In(mskLocation).Format("2006-01-02")
	if d.lastRunDate == today {
		d.logger.Debug("Already warmed today, skipping")
		return nil
	}

	current, err := d.service.ResolveYear(0)
	if err != nil {
		return err
	}

	var errs []error
	for y := current; y > current-d.opts.WarmYears; y-- {
		pc, err := d.service.Calendar(ctx, y)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		d.logger.Info("Calendar warmed",
			zap.Int("year", y),
			zap.Int("days", pc.TotalDays()))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	d.lastRunDate = today
	return nil
}

func (d *Daemon) shutdown() error {
	if d.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.server.Shutdown(ctx)
}

// calculateNextRun calculates the next scheduled run time (MSK timezone)
func (d *Daemon) calculateNextRun() time.Time {
	now := d.now().In(mskLocation)

	today := time.Date(now.Year(), now.Month(), now.Day(),
		d.opts.DailyHour, d.opts.DailyMinute, 0, 0, mskLocation)

	// If target time already passed today, schedule for tomorrow
	if !now.Before(today) {
		return today.AddDate(0, 0, 1)
	}
	return today
}

// shouldRunAt checks if the warm-up should run at the given time
func (d *Daemon) shouldRunAt(now time.Time) bool {
	nowMSK := now.In(mskLocation)
	return nowMSK.Hour() == d.opts.DailyHour &&
		nowMSK.Minute() == d.opts.DailyMinute
}
