package aggregate

import (
	"strings"

	"github.com/anton95i/device-insights/internal/domain"
)

// UnknownBucket is the literal label rows with an absent or empty value
// are counted under. Never an error; every row lands in exactly one bucket.
const UnknownBucket = "Unknown"

// CountByField counts rows per value of the given field. Bucket order is
// the first-encounter order of the input, which keeps the output stable
// for identical input sequences.
func CountByField(rows []domain.Row, field string) Series {
	counts := make(map[string]float64)
	order := make([]string, 0)

	for _, r := range rows {
		key := strings.TrimSpace(r.Fields[field])
		if key == "" {
			key = UnknownBucket
		}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	series := make(Series, 0, len(order))
	for _, key := range order {
		series = append(series, Point{Label: key, Value: counts[key]})
	}
	return series
}

// Categories counts rows per device type category.
func Categories(rows []domain.Row) Series {
	return CountByField(rows, domain.FieldCategory)
}

// Products counts rows per product.
func Products(rows []domain.Row) Series {
	return CountByField(rows, domain.FieldProduct)
}
