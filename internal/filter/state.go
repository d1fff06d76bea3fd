// Package filter holds the shared filter state and the pure engine that
// derives the filtered row subset from it.
package filter

// State is the current value of every filter dimension. An empty Region
// or Category means that dimension is unset. The offset range is in
// whole days relative to the dataset's earliest date and always satisfies
// 0 <= OffsetMin <= OffsetMax <= span.
type State struct {
	Region      string `json:"region"`
	Category    string `json:"category"`
	OffsetMin   int    `json:"offsetMin"`
	OffsetMax   int    `json:"offsetMax"`
	MapRelative bool   `json:"mapRelative"`
}

// NewState returns the default state for a dataset spanning spanDays:
// no region, no category, the full date range, absolute map counts.
func NewState(spanDays int) State {
	return State{OffsetMax: spanDays}
}

// Reset restores the default state regardless of prior values.
func (s *State) Reset(spanDays int) {
	*s = NewState(spanDays)
}

// SetOffsetRange clamps and applies a new day-offset range. An inverted
// pair is swapped; bounds outside [0, spanDays] are pulled in.
func (s *State) SetOffsetRange(min, max, spanDays int) {
	if min > max {
		min, max = max, min
	}
	if min < 0 {
		min = 0
	}
	if max > spanDays {
		max = spanDays
	}
	if min > spanDays {
		min = spanDays
	}
	if max < 0 {
		max = 0
	}
	s.OffsetMin, s.OffsetMax = min, max
}

// RangeSpanDays returns the number of calendar days the selected range
// covers, inclusive of both endpoints.
func (s State) RangeSpanDays() int {
	return s.OffsetMax - s.OffsetMin + 1
}
