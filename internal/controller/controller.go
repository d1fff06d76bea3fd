// Package controller synchronizes the four dashboard charts. Every state
// mutation flows through one event loop: an event updates the shared
// filter state, the filter engine derives the new subset, all aggregators
// run, and each chart surface gets its fresh series. Exactly one mutation
// path exists per filter dimension.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/anton95i/device-insights/internal/aggregate"
	"github.com/anton95i/device-insights/internal/dataset"
	"github.com/anton95i/device-insights/internal/domain"
	"github.com/anton95i/device-insights/internal/filter"
	"github.com/anton95i/device-insights/internal/geo"
	"github.com/anton95i/device-insights/internal/observability"
)

// referenceViewWidth is the display width at which a viewport's base
// zoom applies unscaled.
const referenceViewWidth = 1500

// ChartSurface receives a freshly aggregated series after each recompute.
type ChartSurface interface {
	Push(s aggregate.Series) error
}

// SurfaceFunc adapts a function to the ChartSurface interface.
type SurfaceFunc func(s aggregate.Series) error

func (f SurfaceFunc) Push(s aggregate.Series) error { return f(s) }

// RegionSurface receives the region summary, which carries the color
// scale maximum alongside the series.
type RegionSurface interface {
	Push(sum aggregate.RegionSummary) error
}

// RegionSurfaceFunc adapts a function to the RegionSurface interface.
type RegionSurfaceFunc func(sum aggregate.RegionSummary) error

func (f RegionSurfaceFunc) Push(sum aggregate.RegionSummary) error { return f(sum) }

// Surfaces bundles the four chart surfaces. Nil entries are skipped; a
// missing or broken surface never blocks the others.
type Surfaces struct {
	TimeSeries ChartSurface
	Category   ChartSurface
	Product    ChartSurface
	Region     RegionSurface
}

// Snapshot is the complete render-ready view after a recompute: the
// filter state it was derived from, the four series, and the map
// viewport for the current region selection.
type Snapshot struct {
	State         filter.State            `json:"state"`
	TimeSeries    aggregate.Series        `json:"timeSeries"`
	Categories    aggregate.Series        `json:"categories"`
	Products      aggregate.Series        `json:"products"`
	Regions       aggregate.RegionSummary `json:"regions"`
	Viewport      geo.Viewport            `json:"viewport"`
	FilteredRows  int                     `json:"filteredRows"`
	TotalSpanDays int                     `json:"totalSpanDays"`
	EarliestDay   string                  `json:"earliestDay"`
	LatestDay     string                  `json:"latestDay"`
	GeneratedAt   time.Time               `json:"generatedAt"`
}

// Controller owns the filter state and runs the recompute loop.
type Controller struct {
	store     *dataset.Store
	atlas     *geo.Atlas
	surfaces  Surfaces
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	viewWidth int

	events chan envelope

	mu       sync.RWMutex
	snapshot Snapshot

	// state is touched only by the Run goroutine.
	state filter.State
	ready atomic.Bool
}

type envelope struct {
	event Event
	done  chan struct{}
}

// New creates a controller over an immutable store. viewWidth is the
// display width used for the snapshot's viewport zoom scaling.
func New(store *dataset.Store, atlas *geo.Atlas, surfaces Surfaces, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, viewWidth int) *Controller {
	return &Controller{
		store:     store,
		atlas:     atlas,
		surfaces:  surfaces,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
		viewWidth: viewWidth,
		events:    make(chan envelope, 16),
		state:     filter.NewState(store.TotalSpanDays()),
	}
}

// Run performs the initial recompute and then consumes events until the
// context is cancelled. Handlers run to completion one at a time, so
// filter state is never mutated concurrently.
func (c *Controller) Run(ctx context.Context) error {
	c.logger.Info("chart sync controller started",
		"rows", len(c.store.Rows()),
		"span_days", c.store.TotalSpanDays(),
	)
	c.recompute()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("controller stopping", "reason", ctx.Err())
			return nil
		case env := <-c.events:
			c.handle(env.event)
			close(env.done)
		}
	}
}

// Dispatch submits an event and waits until the controller has processed
// it, so the caller observes the updated snapshot on return.
func (c *Controller) Dispatch(ctx context.Context, ev Event) error {
	env := envelope{event: ev, done: make(chan struct{})}

	select {
	case c.events <- env:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-env.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the most recent render-ready view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Viewport resolves the map viewport for the current region selection at
// the given display width.
func (c *Controller) Viewport(width int) geo.Viewport {
	c.mu.RLock()
	region := c.snapshot.State.Region
	c.mu.RUnlock()
	return c.viewportAt(region, width)
}

// CheckReadiness reports nil once the first recompute has completed.
func (c *Controller) CheckReadiness(_ context.Context) error {
	if !c.ready.Load() {
		return errors.New("charts have not been computed yet")
	}
	return nil
}

func (c *Controller) handle(ev Event) {
	c.metrics.FilterEvents.WithLabelValues(ev.kind()).Inc()
	span := c.store.TotalSpanDays()

	switch e := ev.(type) {
	case SetRegion:
		c.state.Region = e.Region
	case SetCategory:
		c.state.Category = e.Category
	case SetOffsetRange:
		c.state.SetOffsetRange(e.Min, e.Max, span)
	case SetMapRelative:
		c.state.MapRelative = e.Relative
	case ChartSelection:
		c.applySelection(e)
	case ResetFilters:
		c.state.Reset(span)
	default:
		c.logger.Warn("unknown event ignored", "event", ev.kind())
		return
	}

	c.recompute()
}

// applySelection maps a chart click onto its filter dimension. Only the
// region and category charts are click-to-filter; a deselect clears just
// that one dimension.
func (c *Controller) applySelection(e ChartSelection) {
	switch e.Chart {
	case ChartRegion:
		if e.Deselect {
			c.state.Region = ""
		} else {
			c.state.Region = e.Label
		}
	case ChartCategory:
		if e.Deselect {
			c.state.Category = ""
		} else {
			c.state.Category = e.Label
		}
	default:
		c.logger.Debug("selection on unmapped chart ignored", "chart", string(e.Chart), "label", e.Label)
	}
}

// recompute runs the full filter → aggregate → push cycle and installs
// the new snapshot. Each chart's push is independent: a failing surface
// is logged and counted, the remaining charts still update.
func (c *Controller) recompute() {
	start := c.clock.Now()

	rows := filter.Apply(c.store, c.state)
	ts := aggregate.TimeSeries(rows, c.state.RangeSpanDays())
	cats := aggregate.Categories(rows)
	prods := aggregate.Products(rows)
	regions := aggregate.Regions(rows, c.atlas.Populations(), c.state.MapRelative)

	if c.surfaces.TimeSeries != nil {
		c.pushSeries(ChartTimeSeries, c.surfaces.TimeSeries, ts)
	}
	if c.surfaces.Category != nil {
		c.pushSeries(ChartCategory, c.surfaces.Category, cats)
	}
	if c.surfaces.Product != nil {
		c.pushSeries(ChartProduct, c.surfaces.Product, prods)
	}
	if c.surfaces.Region != nil {
		c.metrics.ChartPushes.WithLabelValues(string(ChartRegion)).Inc()
		if err := c.surfaces.Region.Push(regions); err != nil {
			c.chartPushFailed(ChartRegion, err)
		}
	}

	snap := Snapshot{
		State:         c.state,
		TimeSeries:    ts,
		Categories:    cats,
		Products:      prods,
		Regions:       regions,
		Viewport:      c.viewportAt(c.state.Region, c.viewWidth),
		FilteredRows:  len(rows),
		TotalSpanDays: c.store.TotalSpanDays(),
		EarliestDay:   domain.FormatDay(c.store.Earliest()),
		LatestDay:     domain.FormatDay(c.store.Latest()),
		GeneratedAt:   c.clock.Now(),
	}

	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()

	c.ready.Store(true)
	c.metrics.FilteredRows.Set(float64(len(rows)))
	c.metrics.RecomputeTotal.Inc()
	c.metrics.RecomputeDuration.Observe(c.clock.Since(start).Seconds())
}

func (c *Controller) pushSeries(chart ChartKind, surface ChartSurface, s aggregate.Series) {
	c.metrics.ChartPushes.WithLabelValues(string(chart)).Inc()
	if err := surface.Push(s); err != nil {
		c.chartPushFailed(chart, err)
	}
}

func (c *Controller) chartPushFailed(chart ChartKind, err error) {
	c.logger.Error("chart push failed", "chart", string(chart), "error", err)
	c.metrics.ChartPushErrors.WithLabelValues(string(chart)).Inc()
}

// viewportAt scales the region's base zoom linearly with display width so
// the map fills the viewport proportionally across device sizes.
func (c *Controller) viewportAt(region string, width int) geo.Viewport {
	vp := c.atlas.Viewport(region)
	vp.Zoom = vp.Zoom*0.75 + vp.Zoom*0.25*float64(width)/referenceViewWidth
	return vp
}
