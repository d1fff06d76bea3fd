package aggregate

import (
	"sort"
	"time"

	"github.com/anton95i/device-insights/internal/domain"
)

// weeklyThresholdDays is the selected-range width at which the time
// series switches from daily to weekly buckets. A range of 364 days or
// fewer buckets per day; 365 and up buckets per ISO week.
const weeklyThresholdDays = 365

// weeklyRowWeight approximates average-per-day scaling when a row lands
// in a week bucket instead of a day bucket. It is a smoothing convention,
// not a true count.
const weeklyRowWeight = 1.0 / 7.0

// TimeSeries buckets rows by registration date. rangeSpanDays is the
// inclusive day count of the currently selected range and decides the
// granularity. Bucket keys are kept as real dates until after sorting,
// so ordering is always chronological, never lexical.
func TimeSeries(rows []domain.Row, rangeSpanDays int) Series {
	daily := rangeSpanDays < weeklyThresholdDays

	buckets := make(map[time.Time]float64)
	for _, r := range rows {
		if !r.HasDate {
			continue
		}
		if daily {
			buckets[r.CreatedDay]++
		} else {
			buckets[mondayOf(r.CreatedDay)] += weeklyRowWeight
		}
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	series := make(Series, 0, len(keys))
	for _, k := range keys {
		series = append(series, Point{Label: domain.FormatDay(k), Value: buckets[k]})
	}
	return series
}

// mondayOf returns the Monday starting the ISO week containing t.
func mondayOf(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	return domain.AddDays(t, -back)
}
