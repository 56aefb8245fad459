package repository

import (
	"database/sql"
	"sort"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted string.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(layout)
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// encodeWeekdays stores the working-day set as comma-separated weekday
// numbers, Sunday = 0, ascending.
func encodeWeekdays(days map[time.Weekday]bool) string {
	var nums []int
	for d, on := range days {
		if on {
			nums = append(nums, int(d))
		}
	}
	sort.Ints(nums)
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// parseWeekdays decodes the comma-separated weekday list. Unparseable
// entries are skipped.
func parseWeekdays(s string) map[time.Weekday]bool {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days[time.Weekday(n)] = true
	}
	return days
}

// encodeHolidays stores holiday dates as a comma-separated list of
// YYYY-MM-DD values in chronological order.
func encodeHolidays(holidays []time.Time) string {
	parts := make([]string, len(holidays))
	for i, h := range holidays {
		parts[i] = h.Format(dateLayout)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// parseHolidays decodes the comma-separated holiday list. Unparseable
// entries are skipped.
func parseHolidays(s string) []time.Time {
	var holidays []time.Time
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := time.Parse(dateLayout, part)
		if err != nil {
			continue
		}
		holidays = append(holidays, t)
	}
	return holidays
}
