// Package echarts renders the four coordinated charts as a single HTML
// page. It is a passive rendering surface: the controller pushes series
// into it, and requests render whatever was pushed last.
package echarts

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/anton95i/device-insights/internal/aggregate"
)

const (
	chartWidth  = "1100px"
	chartHeight = "420px"
)

// Dashboard holds the latest pushed series for each chart and serves the
// rendered page. Safe for concurrent pushes and renders.
type Dashboard struct {
	logger *slog.Logger

	mu         sync.RWMutex
	timeSeries aggregate.Series
	categories aggregate.Series
	products   aggregate.Series
	regions    aggregate.RegionSummary
}

// NewDashboard creates an empty dashboard surface.
func NewDashboard(logger *slog.Logger) *Dashboard {
	return &Dashboard{logger: logger}
}

// SetTimeSeries replaces the time-series chart data.
func (d *Dashboard) SetTimeSeries(s aggregate.Series) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timeSeries = s
	return nil
}

// SetCategories replaces the category chart data.
func (d *Dashboard) SetCategories(s aggregate.Series) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.categories = s
	return nil
}

// SetProducts replaces the product chart data.
func (d *Dashboard) SetProducts(s aggregate.Series) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.products = s
	return nil
}

// SetRegions replaces the region chart data.
func (d *Dashboard) SetRegions(sum aggregate.RegionSummary) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.regions = sum
	return nil
}

// ServeHTTP renders the page from the most recently pushed series.
func (d *Dashboard) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	d.mu.RLock()
	ts := d.timeSeries
	cats := d.categories
	prods := d.products
	regions := d.regions
	d.mu.RUnlock()

	page := components.NewPage()
	page.PageTitle = "Device Insights"
	page.AddCharts(
		buildTimeSeriesChart(ts),
		buildCategoryChart(cats),
		buildProductChart(prods),
		buildRegionChart(regions),
	)

	w.Header().Set("Content-Type", "text/html")
	if err := page.Render(w); err != nil {
		d.logger.Error("dashboard render failed", "error", err)
	}
}

func buildTimeSeriesChart(s aggregate.Series) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Devices Created Over Time"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Devices"}),
	)

	labels := make([]string, len(s))
	data := make([]opts.LineData, len(s))
	for i, p := range s {
		labels[i] = p.Label
		data[i] = opts.LineData{Value: p.Value}
	}

	line.SetXAxis(labels)
	line.AddSeries("Devices", data)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

func buildCategoryChart(s aggregate.Series) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Devices by Category"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, len(s))
	data := make([]opts.BarData, len(s))
	for i, p := range s {
		labels[i] = p.Label
		data[i] = opts.BarData{Value: p.Value}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Devices", data)
	return bar
}

func buildProductChart(s aggregate.Series) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Devices by Product"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	data := make([]opts.PieData, len(s))
	for i, p := range s {
		data[i] = opts.PieData{Name: p.Label, Value: p.Value}
	}

	pie.AddSeries("Devices", data)
	pie.SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{
		Radius: []string{"30%", "70%"},
	}))
	return pie
}

// buildRegionChart draws regions as a bar chart with a color scale
// normalized to the summary's maximum, mirroring the choropleth's
// intensity mapping. The boundary polygons themselves are served through
// the JSON API for map-capable front ends.
func buildRegionChart(sum aggregate.RegionSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Devices by Region"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Max:        float32(sum.Max),
		}),
	)

	labels := make([]string, len(sum.Series))
	data := make([]opts.BarData, len(sum.Series))
	for i, p := range sum.Series {
		labels[i] = p.Label
		data[i] = opts.BarData{Value: p.Value}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Devices", data)
	return bar
}
