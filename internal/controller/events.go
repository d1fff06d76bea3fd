package controller

// ChartKind identifies one of the four coordinated chart surfaces.
type ChartKind string

const (
	ChartTimeSeries ChartKind = "timeseries"
	ChartCategory   ChartKind = "category"
	ChartProduct    ChartKind = "product"
	ChartRegion     ChartKind = "region"
)

// Event is a filter-affecting interaction. Controls and chart callbacks
// emit events; the controller is their only consumer and the only writer
// of filter state, so a control and the charts can never disagree.
type Event interface {
	// kind is the metrics label for the event.
	kind() string
}

// SetRegion sets (or, with an empty value, clears) the region filter.
type SetRegion struct {
	Region string
}

// SetCategory sets (or clears) the category filter.
type SetCategory struct {
	Category string
}

// SetOffsetRange moves the day-offset range control. Values are clamped
// to [0, totalSpanDays].
type SetOffsetRange struct {
	Min, Max int
}

// SetMapRelative flips the population-relative map toggle.
type SetMapRelative struct {
	Relative bool
}

// ChartSelection is a click (or, with Deselect, a double-click) on a
// chart element. Region-chart clicks map to the region filter and
// category-chart clicks to the category filter; selections on other
// charts are ignored.
type ChartSelection struct {
	Chart    ChartKind
	Label    string
	Deselect bool
}

// ResetFilters restores the default filter state.
type ResetFilters struct{}

func (SetRegion) kind() string      { return "region" }
func (SetCategory) kind() string    { return "category" }
func (SetOffsetRange) kind() string { return "range" }
func (SetMapRelative) kind() string { return "relative" }
func (ResetFilters) kind() string   { return "reset" }

func (e ChartSelection) kind() string {
	if e.Deselect {
		return "deselect"
	}
	return "select"
}
