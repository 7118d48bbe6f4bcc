package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/username/production-calendar/internal/calendar"
	"github.com/username/production-calendar/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	headerColor     = color.New(color.FgBlue, color.Bold)
	holidayColor    = color.New(color.FgRed)
	weekendColor    = color.New(color.FgYellow)
	preholidayColor = color.New(color.FgCyan)
)

// printer renders calendar values in the selected output format
type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer) printer {
	return printer{w: w, format: outputFormat}
}

func (p printer) days(pc *calendar.ProductCalendar) error {
	switch p.format {
	case formatJSON:
		return p.json(pc.Days())
	case formatYAML:
		return p.yaml(pc.AsMaps())
	}

	// kind goes last: its colour codes must not shift the padded columns
	headerColor.Fprintf(p.w, "%-12s%-5s%-7s%s\n", "DATE", "DAY", "HOURS", "KIND")
	for _, d := range pc.Days() {
		fmt.Fprintf(p.w, "%-12s%-5s%-7d%s\n",
			dateutil.FormatDate(d.Date()),
			dateutil.ShortWeekday(d.Weekday()),
			d.WorkingHours(),
			kindLabel(d.Kind()))
	}

	fmt.Fprintf(p.w, "%d day(s)\n", pc.TotalDays())
	return nil
}

func (p printer) day(d calendar.Day) error {
	switch p.format {
	case formatJSON:
		return p.json(d)
	case formatYAML:
		return p.yaml(d.AsMap())
	}

	fmt.Fprintf(p.w, "%s %s %s (%dh)\n",
		dateutil.FormatDate(d.Date()),
		dateutil.ShortWeekday(d.Weekday()),
		kindLabel(d.Kind()),
		d.WorkingHours())
	return nil
}

func (p printer) statistic(title string, s calendar.Statistic) error {
	switch p.format {
	case formatJSON:
		return p.json(s.AsMap())
	case formatYAML:
		return p.yaml(s.AsMap())
	}

	headerColor.Fprintln(p.w, title)
	headerColor.Fprintln(p.w, strings.Repeat("=", 40))
	printField(p.w, "Work days", s.WorkDays)
	printField(p.w, "Pre-holiday days", s.Preholidays)
	printField(p.w, "Weekends", s.Weekends)
	printField(p.w, "Holidays", s.Holidays)
	printField(p.w, "Rest days", s.RestDays())
	printField(p.w, "Total days", s.TotalDays())
	printField(p.w, "Work hours", s.WorkHours())
	return nil
}

func (p printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p printer) yaml(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func printField(w io.Writer, name string, value int) {
	fmt.Fprintf(w, "  %-18s %d\n", name+":", value)
}

func kindLabel(kind calendar.Kind) string {
	switch kind {
	case calendar.KindHoliday:
		return holidayColor.Sprint(kind)
	case calendar.KindWeekend:
		return weekendColor.Sprint(kind)
	case calendar.KindPreholiday:
		return preholidayColor.Sprint(kind)
	default:
		return kind.String()
	}
}
