package aggregate

import (
	"github.com/anton95i/device-insights/internal/domain"
)

// RegionSummary is the region chart's payload: one point per region plus
// the maximum emitted value, which the map surface uses to normalize its
// color scale. Max is 0 when no regions are present.
type RegionSummary struct {
	Series Series  `json:"series"`
	Max    float64 `json:"max"`
}

// defaultPopulation stands in for regions missing from the reference
// table so relative mode never divides by zero.
const defaultPopulation = 1

// Regions counts rows per region. With relative set, each region's raw
// count is replaced by count/population*100 (share of regional
// population); regions absent from populations fall back to a population
// of 1, which leaves their raw count unchanged.
func Regions(rows []domain.Row, populations map[string]int, relative bool) RegionSummary {
	counts := CountByField(rows, domain.FieldRegion)

	var max float64
	for i := range counts {
		if relative {
			pop := populations[counts[i].Label]
			if pop <= 0 {
				pop = defaultPopulation
			}
			counts[i].Value = counts[i].Value / float64(pop) * 100
		}
		if counts[i].Value > max {
			max = counts[i].Value
		}
	}

	return RegionSummary{Series: counts, Max: max}
}
