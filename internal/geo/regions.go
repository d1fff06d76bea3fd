// Package geo supplies the static geographic reference data the region
// chart couples to: per-region map viewports and population counts, and
// the one-shot boundary (GeoJSON) loader.
package geo

// Viewport is a map camera position: center coordinate plus zoom level.
type Viewport struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom float64 `json:"zoom"`
}

// RegionInfo is the per-region reference record.
type RegionInfo struct {
	Viewport   Viewport
	Population int
}

// countryViewport frames all of Austria; used whenever no region filter
// is active or a region has no stored viewport.
var countryViewport = Viewport{Lat: 47.7, Lon: 13.35, Zoom: 6.5}

// regionZoom is the zoom applied to viewports derived from boundary
// feature bounds, where no hand-tuned value exists.
const regionZoom = 8

// regionTable holds the nine Austrian federal states. Populations are the
// Statistik Austria 2022-01-01 counts.
var regionTable = map[string]RegionInfo{
	"Wien":             {Viewport: Viewport{Lat: 48.2082, Lon: 16.3738, Zoom: 10}, Population: 1931593},
	"Niederösterreich": {Viewport: Viewport{Lat: 48.22, Lon: 15.75, Zoom: 8}, Population: 1698796},
	"Oberösterreich":   {Viewport: Viewport{Lat: 48.1, Lon: 13.97, Zoom: 8}, Population: 1505140},
	"Steiermark":       {Viewport: Viewport{Lat: 47.25, Lon: 15.04, Zoom: 8}, Population: 1252922},
	"Tirol":            {Viewport: Viewport{Lat: 47.25, Lon: 11.4, Zoom: 8}, Population: 764102},
	"Kärnten":          {Viewport: Viewport{Lat: 46.72, Lon: 14.1, Zoom: 8.5}, Population: 564513},
	"Salzburg":         {Viewport: Viewport{Lat: 47.47, Lon: 13.2, Zoom: 8.5}, Population: 562606},
	"Vorarlberg":       {Viewport: Viewport{Lat: 47.25, Lon: 9.9, Zoom: 9.5}, Population: 401674},
	"Burgenland":       {Viewport: Viewport{Lat: 47.5, Lon: 16.45, Zoom: 8.5}, Population: 297583},
}

// Atlas resolves region names to viewports and populations, falling back
// to the country-wide viewport and a population of 1 for unknown names.
// It is built once at startup and read-only afterwards.
type Atlas struct {
	infos map[string]RegionInfo
}

// NewAtlas returns an atlas over the built-in federal-state table.
func NewAtlas() *Atlas {
	infos := make(map[string]RegionInfo, len(regionTable))
	for name, info := range regionTable {
		infos[name] = info
	}
	return &Atlas{infos: infos}
}

// Viewport returns the stored viewport for name. An empty or unknown
// name yields the country-wide default.
func (a *Atlas) Viewport(name string) Viewport {
	if info, ok := a.infos[name]; ok {
		return info.Viewport
	}
	return countryViewport
}

// Population returns the population for name, or 1 when unknown so
// population-relative division is always defined.
func (a *Atlas) Population(name string) int {
	if info, ok := a.infos[name]; ok && info.Population > 0 {
		return info.Population
	}
	return 1
}

// Populations returns a name → population snapshot for the region
// aggregator. Only regions with a real population entry are included;
// the aggregator applies the fallback of 1 itself.
func (a *Atlas) Populations() map[string]int {
	out := make(map[string]int, len(a.infos))
	for name, info := range a.infos {
		if info.Population > 0 {
			out[name] = info.Population
		}
	}
	return out
}

// AddBoundaryCenters derives viewports for boundary features whose
// region name has no entry yet, centering on the feature's bounding
// rectangle. Existing entries are left untouched. Call before the atlas
// is shared with the controller.
func (a *Atlas) AddBoundaryCenters(fc *FeatureCollection) {
	if fc == nil {
		return
	}
	for _, f := range fc.Features {
		name := f.Name()
		if name == "" {
			continue
		}
		if _, ok := a.infos[name]; ok {
			continue
		}
		center, ok := f.Center()
		if !ok {
			continue
		}
		a.infos[name] = RegionInfo{
			Viewport: Viewport{Lat: center.Lat.Degrees(), Lon: center.Lng.Degrees(), Zoom: regionZoom},
		}
	}
}
