package calendar

import (
	"math"
	"time"
)

// WorkingCalendar defines the working weekdays, the daily capacity in hours,
// and holiday exceptions used for all date arithmetic. It is treated as
// immutable during a computation.
type WorkingCalendar struct {
	ID          string
	Name        string
	WorkingDays map[time.Weekday]bool
	HoursPerDay float64
	Holidays    []time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultHoursPerDay is the daily capacity assumed when none is configured.
const DefaultHoursPerDay float64 = 8

// Default returns the fallback calendar: Monday through Friday, 8h/day,
// no holidays. Used whenever a calendar reference cannot be resolved.
func Default() WorkingCalendar {
	return WorkingCalendar{
		Name: "default",
		WorkingDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		HoursPerDay: DefaultHoursPerDay,
	}
}

// DateOnly truncates t to midnight UTC. All schedule dates are date-only.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (c WorkingCalendar) hoursPerDay() float64 {
	if c.HoursPerDay <= 0 {
		return DefaultHoursPerDay
	}
	return c.HoursPerDay
}

// IsHoliday reports whether d falls on a configured holiday date.
func (c WorkingCalendar) IsHoliday(d time.Time) bool {
	d = DateOnly(d)
	for _, h := range c.Holidays {
		if DateOnly(h).Equal(d) {
			return true
		}
	}
	return false
}

// IsWorkingDay reports whether d is a working weekday and not a holiday.
func (c WorkingCalendar) IsWorkingDay(d time.Time) bool {
	if len(c.WorkingDays) == 0 {
		return Default().IsWorkingDay(d) && !c.IsHoliday(d)
	}
	return c.WorkingDays[d.Weekday()] && !c.IsHoliday(d)
}

// NextWorkingDay returns d if it is a working day, otherwise the first
// working day after it.
func (c WorkingCalendar) NextWorkingDay(d time.Time) time.Time {
	d = DateOnly(d)
	for !c.IsWorkingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddWorkingDays steps forward from d one calendar day at a time until n
// working days have been counted, returning the date of the last counted day.
// n <= 0 returns d unchanged.
func (c WorkingCalendar) AddWorkingDays(d time.Time, n int) time.Time {
	d = DateOnly(d)
	for counted := 0; counted < n; {
		d = d.AddDate(0, 0, 1)
		if c.IsWorkingDay(d) {
			counted++
		}
	}
	return d
}

// WorkingDaysBetween counts the working days in (from, to], in calendar order.
// Returns 0 when to is not after from.
func (c WorkingCalendar) WorkingDaysBetween(from, to time.Time) int {
	from, to = DateOnly(from), DateOnly(to)
	n := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			n++
		}
	}
	return n
}

// ComputeEndDate derives the end date for a work package of the given size
// starting at start. Zero or negative hours mean "no duration" and return
// start unchanged. Otherwise the number of working days is ceil(hours /
// hoursPerDay), counted strictly after start; the result is always strictly
// after start. Total and side-effect-free.
func ComputeEndDate(start time.Time, hours float64, cal WorkingCalendar) time.Time {
	start = DateOnly(start)
	if hours <= 0 {
		return start
	}
	needed := int(math.Ceil(hours / cal.hoursPerDay()))
	end := cal.AddWorkingDays(start, needed)
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	return end
}
