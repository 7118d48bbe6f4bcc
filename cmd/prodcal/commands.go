package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/production-calendar/internal/calendar"
	"github.com/username/production-calendar/internal/daemon"
	"github.com/username/production-calendar/pkg/dateutil"
)

func daysCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "days",
		Short: "List every day of the year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := service.Calendar(cmd.Context(), year)
			if err != nil {
				return err
			}

			if kind != "" {
				k, err := calendar.ParseKind(kind)
				if err != nil {
					return err
				}
				pc = pc.ByKind(k)
			}

			return newPrinter(cmd.OutOrStdout()).days(pc)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only days of this kind: work, weekend, holiday, preholiday")

	return cmd
}

func statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat",
		Short: "Count work days, weekends, holidays and working hours of the year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := service.Calendar(cmd.Context(), year)
			if err != nil {
				return err
			}

			return newPrinter(cmd.OutOrStdout()).statistic(fmt.Sprintf("Production calendar %d", pc.Year()), pc.Statistic())
		},
	}
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info DATE",
		Short: "Show the classification of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, pc, err := calendarFor(cmd, args[0])
			if err != nil {
				return err
			}

			day, err := pc.InfoByDate(date)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).day(day)
		},
	}
}

func todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show the classification of today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := service.Today(cmd.Context())
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).day(day)
		},
	}
}

func periodCmd() *cobra.Command {
	var workDays bool

	cmd := &cobra.Command{
		Use:   "period DATE N",
		Short: "List N days starting at DATE",
		Long:  "List N consecutive days starting at DATE, or with --workdays the days up to and including the N-th working day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, pc, err := calendarFor(cmd, args[0])
			if err != nil {
				return err
			}
			n, err := parseCount(args[1])
			if err != nil {
				return err
			}

			var period *calendar.ProductCalendar
			if workDays {
				period, err = pc.PeriodByNumberOfWorkDays(date, n)
			} else {
				period, err = pc.PeriodByNumberOfDays(date, n)
			}
			if err != nil {
				return err
			}

			return newPrinter(cmd.OutOrStdout()).days(period)
		},
	}

	cmd.Flags().BoolVarP(&workDays, "workdays", "w", false, "Count working days instead of calendar days")

	return cmd
}

func nextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next DATE",
		Short: "Show the first working day after DATE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, pc, err := calendarFor(cmd, args[0])
			if err != nil {
				return err
			}

			day, err := pc.NextWorkDay(date)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).day(day)
		},
	}
}

func sliceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slice START END",
		Short: "List the days from START to END inclusive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, pc, err := calendarFor(cmd, args[0])
			if err != nil {
				return err
			}
			end, err := dateutil.ParseDate(args[1])
			if err != nil {
				return err
			}

			period, err := pc.PeriodSlice(start, end)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).days(period)
		},
	}
}

func quarterCmd() *cobra.Command {
	var statOnly bool

	cmd := &cobra.Command{
		Use:   "quarter Q",
		Short: "List the days of quarter Q (1-4)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid quarter %q: %w", args[0], err)
			}

			pc, err := service.Calendar(cmd.Context(), year)
			if err != nil {
				return err
			}
			quarter, err := pc.ExtractDatesInQuarter(q)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if statOnly {
				return p.statistic(fmt.Sprintf("Q%d %d", q, pc.Year()), quarter.Statistic())
			}
			return p.days(quarter)
		},
	}

	cmd.Flags().BoolVarP(&statOnly, "stat", "s", false, "Print the statistic of the quarter instead of its days")

	return cmd
}

func weeksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weeks DATE N",
		Short: "Show the day N weeks after DATE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, pc, err := calendarFor(cmd, args[0])
			if err != nil {
				return err
			}
			n, err := parseCount(args[1])
			if err != nil {
				return err
			}

			day, err := pc.AfterNthWeeks(date, n)
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout()).day(day)
		},
	}
}

func extendCmd() *cobra.Command {
	var forward, backward int

	cmd := &cobra.Command{
		Use:   "extend DATE N",
		Short: "Take N days from DATE and widen the period",
		Long:  "Take N days starting at DATE, then add days after the period (--forward) or before it (--backward) without leaving the year",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (forward == 0) == (backward == 0) {
				return fmt.Errorf("exactly one of --forward or --backward is required")
			}

			date, pc, err := calendarFor(cmd, args[0])
			if err != nil {
				return err
			}
			n, err := parseCount(args[1])
			if err != nil {
				return err
			}

			period, err := pc.PeriodByNumberOfDays(date, n)
			if err != nil {
				return err
			}

			if forward != 0 {
				period, err = service.ExtendForward(period, forward)
			} else {
				period, err = service.ExtendBackward(period, backward)
			}
			if err != nil {
				return err
			}

			return newPrinter(cmd.OutOrStdout()).days(period)
		},
	}

	cmd.Flags().IntVar(&forward, "forward", 0, "Days to add after the period")
	cmd.Flags().IntVar(&backward, "backward", 0, "Days to add before the period")

	return cmd
}

func serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as a daemon: keep recent calendars warm and serve them over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("listen") {
				cfg.Daemon.Listen = listen
			}
			hour, minute := cfg.Daemon.GetDailyTime()

			d := daemon.New(service, daemon.Options{
				Listen:      cfg.Daemon.Listen,
				DailyHour:   hour,
				DailyMinute: minute,
				WarmYears:   cfg.Daemon.WarmYears,
			}, logger)

			return d.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "HTTP listen address (overrides daemon.listen)")

	return cmd
}

// calendarFor parses a date argument and loads the calendar of its year,
// unless --year selects one explicitly
func calendarFor(cmd *cobra.Command, arg string) (time.Time, *calendar.ProductCalendar, error) {
	date, err := dateutil.ParseDate(arg)
	if err != nil {
		return time.Time{}, nil, err
	}

	y := year
	if y == 0 {
		y = date.Year()
	}

	pc, err := service.Calendar(cmd.Context(), y)
	if err != nil {
		return time.Time{}, nil, err
	}
	return date, pc, nil
}

func parseCount(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", arg, err)
	}
	return n, nil
}
