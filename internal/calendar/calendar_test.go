package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Monday, June 2, 2025.
var monday = date(2025, time.June, 2)

func TestComputeEndDate_ZeroHours(t *testing.T) {
	end := ComputeEndDate(monday, 0, Default())
	assert.True(t, end.Equal(monday), "zero hours must leave start unchanged")
}

func TestComputeEndDate_NegativeHours(t *testing.T) {
	end := ComputeEndDate(monday, -4, Default())
	assert.True(t, end.Equal(monday))
}

func TestComputeEndDate_OneDay(t *testing.T) {
	end := ComputeEndDate(monday, 8, Default())
	assert.Equal(t, date(2025, time.June, 3), end, "8h on Monday ends Tuesday")
}

func TestComputeEndDate_FiveDaysSkipsWeekend(t *testing.T) {
	end := ComputeEndDate(monday, 40, Default())
	assert.Equal(t, date(2025, time.June, 9), end, "40h on Monday ends the following Monday")
}

func TestComputeEndDate_PartialDayRoundsUp(t *testing.T) {
	// 9h needs ceil(9/8) = 2 working days.
	end := ComputeEndDate(monday, 9, Default())
	assert.Equal(t, date(2025, time.June, 4), end)
}

func TestComputeEndDate_StartOnWeekend(t *testing.T) {
	saturday := date(2025, time.June, 7)
	end := ComputeEndDate(saturday, 8, Default())
	assert.Equal(t, date(2025, time.June, 9), end, "first counted day is the next Monday")
}

func TestComputeEndDate_Holiday(t *testing.T) {
	cal := Default()
	cal.Holidays = []time.Time{date(2025, time.June, 3)}
	end := ComputeEndDate(monday, 8, cal)
	assert.Equal(t, date(2025, time.June, 4), end, "holiday Tuesday pushes the end to Wednesday")
}

func TestComputeEndDate_CustomHoursPerDay(t *testing.T) {
	cal := Default()
	cal.HoursPerDay = 4
	end := ComputeEndDate(monday, 8, cal)
	assert.Equal(t, date(2025, time.June, 4), end, "8h at 4h/day needs two working days")
}

func TestComputeEndDate_ZeroCapacityFallsBack(t *testing.T) {
	cal := Default()
	cal.HoursPerDay = 0
	end := ComputeEndDate(monday, 8, cal)
	assert.Equal(t, date(2025, time.June, 3), end)
}

func TestIsWorkingDay(t *testing.T) {
	cal := Default()
	assert.True(t, cal.IsWorkingDay(monday))
	assert.False(t, cal.IsWorkingDay(date(2025, time.June, 7)), "Saturday")
	assert.False(t, cal.IsWorkingDay(date(2025, time.June, 8)), "Sunday")

	cal.Holidays = []time.Time{monday}
	assert.False(t, cal.IsWorkingDay(monday))
}

func TestIsWorkingDay_EmptyWeekdaysFallsBack(t *testing.T) {
	cal := WorkingCalendar{Holidays: []time.Time{monday}}
	assert.False(t, cal.IsWorkingDay(monday), "own holidays still apply under fallback weekdays")
	assert.True(t, cal.IsWorkingDay(date(2025, time.June, 3)))
}

func TestNextWorkingDay(t *testing.T) {
	cal := Default()
	assert.Equal(t, monday, cal.NextWorkingDay(monday))
	assert.Equal(t, date(2025, time.June, 9), cal.NextWorkingDay(date(2025, time.June, 7)))
}

func TestAddWorkingDays(t *testing.T) {
	cal := Default()
	assert.Equal(t, monday, cal.AddWorkingDays(monday, 0))
	assert.Equal(t, date(2025, time.June, 6), cal.AddWorkingDays(monday, 4), "Friday")
	assert.Equal(t, date(2025, time.June, 9), cal.AddWorkingDays(monday, 5), "skips the weekend")
}

func TestWorkingDaysBetween(t *testing.T) {
	cal := Default()
	assert.Equal(t, 0, cal.WorkingDaysBetween(monday, monday))
	assert.Equal(t, 5, cal.WorkingDaysBetween(monday, date(2025, time.June, 9)))
	assert.Equal(t, 4, cal.WorkingDaysBetween(monday, date(2025, time.June, 8)), "weekend days not counted")
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("X", -3*3600)
	ts := time.Date(2025, time.June, 2, 23, 45, 0, 0, loc)
	assert.Equal(t, time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC), DateOnly(ts))
}
