package domain

import (
	"strconv"
	"strings"
	"time"
)

// DayFormat is the textual date layout used by the source data and for
// bucket labels: day.month.year with "." separators.
const DayFormat = "02.01.2006"

// dayLength is the fixed day constant used for all offset arithmetic.
// Dates are UTC midnights, so a day is always exactly 24 hours here and
// daylight-saving rules cannot skew offsets.
const dayLength = 24 * time.Hour

// ParseDay parses a DD.MM.YYYY string into a UTC midnight.
// Any malformed input (wrong part count, non-numeric parts, calendar
// rollover like "31.02.2022") yields (zero, false) rather than an error,
// so a bad date can never halt the load pipeline.
func ParseDay(raw string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, false
	}
	if year < 1 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31.02 → 03.03); reject anything that moved.
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, false
	}
	return t, true
}

// FormatDay renders a date back into the DD.MM.YYYY source form.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// DayOffset returns the whole-day count from epoch to d.
func DayOffset(epoch, d time.Time) int {
	return int(d.Sub(epoch) / dayLength)
}

// AddDays returns the date n days after d.
func AddDays(d time.Time, n int) time.Time {
	return d.Add(time.Duration(n) * dayLength)
}
