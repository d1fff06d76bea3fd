// Package aggregate reduces filtered row subsets into the labeled series
// the chart surfaces consume. Every aggregator builds its series from
// scratch on each call; series are replaced wholesale, never patched.
package aggregate

// Point is one (label, value) pair of a series. Label semantics depend
// on the chart: a date bucket, a category, a product, or a region name.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is an ordered sequence of points.
type Series []Point
