package filter

import (
	"github.com/anton95i/device-insights/internal/dataset"
	"github.com/anton95i/device-insights/internal/domain"
)

// Apply derives the filtered row subset from the store and the current
// state. It is a pure function of its inputs: no side effects, rows kept
// in original dataset order, identical inputs always produce identical
// output. That makes it safe to re-run on every UI event without caching.
//
// A row is retained iff every set dimension matches and its day offset
// falls inside the selected range.
func Apply(store *dataset.Store, state State) []domain.Row {
	rows := store.Rows()
	out := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		if state.Region != "" && r.Region() != state.Region {
			continue
		}
		if state.Category != "" && r.Category() != state.Category {
			continue
		}
		if !r.HasDate {
			continue
		}
		if r.DayOffset < state.OffsetMin || r.DayOffset > state.OffsetMax {
			continue
		}
		out = append(out, r)
	}
	return out
}
