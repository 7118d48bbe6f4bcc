package daemon

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/username/production-calendar/internal/calendar"
	"github.com/username/production-calendar/pkg/dateutil"
	"go.uber.org/zap"
)

func (d *Daemon) setupRoutes() {
	d.router.HandleFunc("/api/v1/calendar/{year:[0-9]+}", d.getCalendar).Methods("GET")
	d.router.HandleFunc("/api/v1/calendar/{year:[0-9]+}/statistic", d.getStatistic).Methods("GET")
	d.router.HandleFunc("/api/v1/calendar/{year:[0-9]+}/quarters/{quarter:[0-9]+}", d.getQuarter).Methods("GET")
	d.router.HandleFunc("/api/v1/days/{date}", d.getDay).Methods("GET")
	d.router.HandleFunc("/api/v1/days/{date}/next", d.getNextWorkDay).Methods("GET")
	d.router.HandleFunc("/health", d.healthCheck).Methods("GET")
	d.router.Handle("/metrics", promhttp.Handler())
}

// getCalendar returns every day of a year, optionally filtered by ?kind=
func (d *Daemon) getCalendar(w http.ResponseWriter, r *http.Request) {
	pc, ok := d.calendarOf(w, r)
	if !ok {
		return
	}

	if kind := r.URL.Query().Get("kind"); kind != "" {
		k, err := calendar.ParseKind(kind)
		if err != nil {
			d.writeError(w, http.StatusBadRequest, "invalid kind", err)
			return
		}
		pc = pc.ByKind(k)
	}

	d.writeJSON(w, pc.Days())
}

func (d *Daemon) getStatistic(w http.ResponseWriter, r *http.Request) {
	pc, ok := d.calendarOf(w, r)
	if !ok {
		return
	}

	stat := pc.Statistic()
	d.writeJSON(w, map[string]any{
		"year":       pc.Year(),
		"statistic":  stat.AsMap(),
		"work_hours": stat.WorkHours(),
	})
}

func (d *Daemon) getQuarter(w http.ResponseWriter, r *http.Request) {
	pc, ok := d.calendarOf(w, r)
	if !ok {
		return
	}

	q, _ := strconv.Atoi(mux.Vars(r)["quarter"])
	quarter, err := pc.ExtractDatesInQuarter(q)
	if err != nil {
		d.writeCalendarError(w, err)
		return
	}

	d.writeJSON(w, quarter.Days())
}

func (d *Daemon) getDay(w http.ResponseWriter, r *http.Request) {
	date, pc, ok := d.calendarOfDate(w, r)
	if !ok {
		return
	}

	day, err := pc.InfoByDate(date)
	if err != nil {
		d.writeCalendarError(w, err)
		return
	}

	d.writeJSON(w, day)
}

func (d *Daemon) getNextWorkDay(w http.ResponseWriter, r *http.Request) {
	date, pc, ok := d.calendarOfDate(w, r)
	if !ok {
		return
	}

	day, err := pc.NextWorkDay(date)
	if err != nil {
		d.writeCalendarError(w, err)
		return
	}

	d.writeJSON(w, day)
}

func (d *Daemon) healthCheck(w http.ResponseWriter, r *http.Request) {
	d.writeJSON(w, map[string]any{
		"status":       "ok",
		"cached_years": d.service.Cache().Years(),
	})
}

func (d *Daemon) calendarOf(w http.ResponseWriter, r *http.Request) (*calendar.ProductCalendar, bool) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil {
		d.writeError(w, http.StatusBadRequest, "invalid year", err)
		return nil, false
	}

	pc, err := d.service.Calendar(r.Context(), year)
	if err != nil {
		d.writeCalendarError(w, err)
		return nil, false
	}
	return pc, true
}

func (d *Daemon) calendarOfDate(w http.ResponseWriter, r *http.Request) (time.Time, *calendar.ProductCalendar, bool) {
	date, err := dateutil.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		d.writeError(w, http.StatusBadRequest, "invalid date", err)
		return time.Time{}, nil, false
	}

	pc, err := d.service.Calendar(r.Context(), date.Year())
	if err != nil {
		d.writeCalendarError(w, err)
		return time.Time{}, nil, false
	}
	return date, pc, true
}

// writeCalendarError maps calendar errors to HTTP status codes
func (d *Daemon) writeCalendarError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calendar.ErrInvalidYear), errors.Is(err, calendar.ErrInvalidQuarter):
		d.writeError(w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, calendar.ErrDateOutOfRange), errors.Is(err, calendar.ErrExceedMaxDays):
		d.writeError(w, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, calendar.ErrProvider):
		d.writeError(w, http.StatusBadGateway, "override source unavailable", err)
	default:
		d.writeError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func (d *Daemon) writeError(w http.ResponseWriter, statusCode int, message string, err error) {
	d.logger.Warn(message,
		zap.Int("status_code", statusCode),
		zap.Error(err))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (d *Daemon) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.logger.Error("Failed to encode response", zap.Error(err))
	}
}
