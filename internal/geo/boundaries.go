package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang/geo/s2"

	"github.com/anton95i/device-insights/internal/observability"
)

// FeatureCollection is the subset of GeoJSON the dashboard needs: named
// polygon features keyed by region name.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is one named boundary polygon.
type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   Geometry       `json:"geometry"`
}

// Geometry keeps coordinates raw; only Polygon and MultiPolygon are decoded.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Name returns the feature's region name from the "name" property.
func (f Feature) Name() string {
	if v, ok := f.Properties["name"].(string); ok {
		return v
	}
	return ""
}

// Center returns the center of the feature's bounding rectangle, or
// false when the geometry is absent or not a (multi)polygon.
func (f Feature) Center() (s2.LatLng, bool) {
	rect := s2.EmptyRect()
	addRing := func(ring [][]float64) {
		for _, c := range ring {
			if len(c) >= 2 {
				// GeoJSON coordinate order is lon, lat.
				rect = rect.AddPoint(s2.LatLngFromDegrees(c[1], c[0]))
			}
		}
	}

	switch f.Geometry.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &rings); err != nil {
			return s2.LatLng{}, false
		}
		for _, ring := range rings {
			addRing(ring)
		}
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(f.Geometry.Coordinates, &polys); err != nil {
			return s2.LatLng{}, false
		}
		for _, poly := range polys {
			for _, ring := range poly {
				addRing(ring)
			}
		}
	default:
		return s2.LatLng{}, false
	}

	if rect.IsEmpty() {
		return s2.LatLng{}, false
	}
	return rect.Center(), true
}

// Loader fetches the boundary dataset once and caches it for the process
// lifetime. The source is static reference data, so the cache is only
// invalidated by a restart. A failed fetch is not cached; the next call
// retries.
type Loader struct {
	source     string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics

	mu     sync.Mutex
	cached *FeatureCollection
}

// NewLoader creates a boundary loader. source is an http(s) URL or a
// local file path.
func NewLoader(source string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		source:     source,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// Boundaries returns the cached feature collection, fetching it on the
// first call.
func (l *Loader) Boundaries(ctx context.Context) (*FeatureCollection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil {
		l.metrics.BoundaryCacheHit.Inc()
		return l.cached, nil
	}

	fc, err := l.fetch(ctx)
	if err != nil {
		l.metrics.BoundaryFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	l.metrics.BoundaryFetches.WithLabelValues("success").Inc()
	l.logger.Info("boundary data loaded", "source", l.source, "features", len(fc.Features))

	l.cached = fc
	return fc, nil
}

func (l *Loader) fetch(ctx context.Context) (*FeatureCollection, error) {
	var body []byte
	var err error

	if strings.HasPrefix(l.source, "http://") || strings.HasPrefix(l.source, "https://") {
		body, err = l.fetchHTTP(ctx)
	} else {
		body, err = os.ReadFile(l.source)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch boundaries: %w", err)
	}

	var fc FeatureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("decode boundaries: %w", err)
	}
	return &fc, nil
}

func (l *Loader) fetchHTTP(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("boundary source returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
