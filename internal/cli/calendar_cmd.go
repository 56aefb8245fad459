package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/svelazco/cronos/internal/calendar"
	"github.com/svelazco/cronos/internal/cli/formatter"
)

func newCalendarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage working calendars",
	}

	cmd.AddCommand(
		newCalendarAddCmd(app),
		newCalendarListCmd(app),
		newCalendarRemoveCmd(app),
	)

	return cmd
}

func newCalendarAddCmd(app *App) *cobra.Command {
	var name string
	var hours float64
	var days []int
	var holidays []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a working calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := calendar.Default()
			c.Name = name
			c.HoursPerDay = hours

			if len(days) > 0 {
				c.WorkingDays = make(map[time.Weekday]bool, len(days))
				for _, d := range days {
					if d < 0 || d > 6 {
						return fmt.Errorf("invalid weekday %d (0=Sunday..6=Saturday)", d)
					}
					c.WorkingDays[time.Weekday(d)] = true
				}
			}
			for _, h := range holidays {
				d, err := parseDate(h)
				if err != nil {
					return err
				}
				c.Holidays = append(c.Holidays, d)
			}

			if err := app.Calendars.Create(context.Background(), &c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created calendar %s (%s)\n", c.Name, c.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Calendar name")
	cmd.Flags().Float64Var(&hours, "hours", calendar.DefaultHoursPerDay, "Working hours per day")
	cmd.Flags().IntSliceVar(&days, "days", nil, "Working weekdays (0=Sunday..6=Saturday, default Mon-Fri)")
	cmd.Flags().StringSliceVar(&holidays, "holiday", nil, "Holiday dates (YYYY-MM-DD, repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCalendarListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List working calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			calendars, err := app.Calendars.List(context.Background())
			if err != nil {
				return err
			}
			if len(calendars) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No calendars found.")
				return nil
			}

			rows := make([][]string, 0, len(calendars))
			for _, c := range calendars {
				rows = append(rows, []string{
					formatter.ShortID(c.ID),
					c.Name,
					formatWeekdays(c.WorkingDays),
					strconv.FormatFloat(c.HoursPerDay, 'g', -1, 64),
					strconv.Itoa(len(c.Holidays)),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(
				[]string{"ID", "NAME", "DAYS", "H/DAY", "HOLIDAYS"}, rows))
			return nil
		},
	}
}

func newCalendarRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a working calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Calendars.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Calendar deleted. Schedules using it fall back to the default calendar.")
			return nil
		},
	}
}

var weekdayShort = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func formatWeekdays(days map[time.Weekday]bool) string {
	var parts []string
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if days[wd] {
			parts = append(parts, weekdayShort[wd])
		}
	}
	return strings.Join(parts, ",")
}
