// Package dataset holds the immutable, normalized row collection the
// dashboard is built on. The store is computed once at load and never
// mutated afterward; every downstream recomputation reads from it.
package dataset

import (
	"errors"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/anton95i/device-insights/internal/domain"
)

// ErrNoValidDates signals that no retained row had a parsable creation
// date. The store is unusable in that state and no chart may render.
var ErrNoValidDates = errors.New("dataset: no rows with valid creation dates")

// Skip reasons reported in Stats and exported as metric labels.
const (
	SkipMissingRegion   = "missing_region"
	SkipMissingProduct  = "missing_product"
	SkipBadDate         = "bad_date"
	SkipBeforeThreshold = "before_threshold"
)

// Options controls load-time filtering.
type Options struct {
	// MinCreatedDate drops rows dated at or before it. The zero value
	// disables the cutoff.
	MinCreatedDate time.Time
}

// Stats counts what happened during a load.
type Stats struct {
	Retained int
	Skipped  map[string]int
}

// Store owns the retained rows and the dataset-wide date bounds.
type Store struct {
	rows     []domain.Row
	earliest time.Time
	latest   time.Time
	spanDays int
	loadedAt time.Time
	stats    Stats

	regions    []string
	categories []string
}

// Load filters and normalizes raw records into a Store. A record is
// retained iff region and product are present and the creation date
// parses (and, with a threshold configured, falls strictly after it).
// Retained rows keep their input order and are annotated with the day
// offset from the earliest retained date.
func Load(records []domain.Record, opts Options, clock clockwork.Clock) (*Store, error) {
	s := &Store{
		loadedAt: clock.Now(),
		stats:    Stats{Skipped: make(map[string]int)},
	}

	seenRegion := make(map[string]bool)
	seenCategory := make(map[string]bool)

	for _, rec := range records {
		if rec[domain.FieldRegion] == "" {
			s.stats.Skipped[SkipMissingRegion]++
			continue
		}
		if rec[domain.FieldProduct] == "" {
			s.stats.Skipped[SkipMissingProduct]++
			continue
		}
		created, ok := domain.ParseDay(rec[domain.FieldCreatedDay])
		if !ok {
			s.stats.Skipped[SkipBadDate]++
			continue
		}
		if !opts.MinCreatedDate.IsZero() && !created.After(opts.MinCreatedDate) {
			s.stats.Skipped[SkipBeforeThreshold]++
			continue
		}

		row := domain.Row{Fields: rec, CreatedDay: created, HasDate: true}
		s.rows = append(s.rows, row)

		if s.earliest.IsZero() || created.Before(s.earliest) {
			s.earliest = created
		}
		if created.After(s.latest) {
			s.latest = created
		}

		if !seenRegion[rec[domain.FieldRegion]] {
			seenRegion[rec[domain.FieldRegion]] = true
			s.regions = append(s.regions, rec[domain.FieldRegion])
		}
		if cat := rec[domain.FieldCategory]; cat != "" && !seenCategory[cat] {
			seenCategory[cat] = true
			s.categories = append(s.categories, cat)
		}
	}

	if len(s.rows) == 0 {
		return nil, ErrNoValidDates
	}

	s.spanDays = domain.DayOffset(s.earliest, s.latest)
	for i := range s.rows {
		s.rows[i].DayOffset = domain.DayOffset(s.earliest, s.rows[i].CreatedDay)
	}
	s.stats.Retained = len(s.rows)

	return s, nil
}

// Rows returns the retained rows in original order. Callers must not
// mutate the returned slice.
func (s *Store) Rows() []domain.Row { return s.rows }

// Earliest returns the minimum creation date across retained rows.
func (s *Store) Earliest() time.Time { return s.earliest }

// Latest returns the maximum creation date across retained rows.
func (s *Store) Latest() time.Time { return s.latest }

// TotalSpanDays returns the day distance earliest→latest. Always >= 0.
func (s *Store) TotalSpanDays() int { return s.spanDays }

// LoadedAt returns when the store was built.
func (s *Store) LoadedAt() time.Time { return s.loadedAt }

// Stats returns load counters for logging and metrics.
func (s *Store) Stats() Stats { return s.stats }

// Regions returns the distinct region values in first-encounter order.
func (s *Store) Regions() []string { return s.regions }

// Categories returns the distinct non-empty category values in
// first-encounter order.
func (s *Store) Categories() []string { return s.categories }
