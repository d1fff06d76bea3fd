package httpapi_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anton95i/device-insights/internal/adapter/httpapi"
	"github.com/anton95i/device-insights/internal/controller"
	"github.com/anton95i/device-insights/internal/dataset"
	"github.com/anton95i/device-insights/internal/domain"
	"github.com/anton95i/device-insights/internal/geo"
	"github.com/anton95i/device-insights/internal/observability"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, boundarySrv string) *httpapi.Server {
	t.Helper()

	records := []domain.Record{
		{domain.FieldRegion: "Wien", domain.FieldProduct: "A", domain.FieldCreatedDay: "01.01.2022", domain.FieldCategory: "Mobile"},
		{domain.FieldRegion: "Wien", domain.FieldProduct: "B", domain.FieldCreatedDay: "02.01.2022", domain.FieldCategory: "Tablet"},
		{domain.FieldRegion: "Tirol", domain.FieldProduct: "A", domain.FieldCreatedDay: "05.01.2022", domain.FieldCategory: "Mobile"},
	}
	store, err := dataset.Load(records, dataset.Options{}, clockwork.NewFakeClock())
	require.NoError(t, err)

	metrics := observability.NewMetricsForTesting()
	ctrl := controller.New(store, geo.NewAtlas(), controller.Surfaces{}, testLogger(), metrics, clockwork.NewRealClock(), 1500)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = ctrl.Run(ctx) }()
	require.Eventually(t, func() bool { return ctrl.CheckReadiness(ctx) == nil }, time.Second, time.Millisecond)

	if boundarySrv == "" {
		boundarySrv = "/nonexistent/boundaries.geojson"
	}
	loader := geo.NewLoader(boundarySrv, time.Second, testLogger(), metrics)

	dash := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	})

	return httpapi.NewServer(":0", ctrl, store, loader, dash, 1500, testLogger())
}

func doJSON(t *testing.T, srv *httpapi.Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && strings.Contains(rec.Header().Get("Content-Type"), "json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestServer_HealthAndReadiness(t *testing.T) {
	srv := newTestServer(t, "")

	rec, body := doJSON(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	rec, body = doJSON(t, srv, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body["status"])
}

func TestServer_Snapshot(t *testing.T) {
	srv := newTestServer(t, "")

	rec, body := doJSON(t, srv, http.MethodGet, "/api/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), body["totalSpanDays"])
	assert.Equal(t, float64(3), body["filteredRows"])
	assert.Equal(t, "01.01.2022", body["earliestDay"])

	t.Run("width rescales the viewport", func(t *testing.T) {
		rec, body := doJSON(t, srv, http.MethodGet, "/api/snapshot?width=750", "")
		require.Equal(t, http.StatusOK, rec.Code)
		vp := body["viewport"].(map[string]any)
		assert.InDelta(t, 6.5*0.75+6.5*0.25*0.5, vp["zoom"].(float64), 1e-9)
	})

	t.Run("invalid width is rejected", func(t *testing.T) {
		rec, _ := doJSON(t, srv, http.MethodGet, "/api/snapshot?width=banana", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_Options(t *testing.T) {
	srv := newTestServer(t, "")

	rec, body := doJSON(t, srv, http.MethodGet, "/api/options", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Wien", "Tirol"}, body["regions"])
	assert.Equal(t, []any{"Mobile", "Tablet"}, body["categories"])
	assert.Equal(t, float64(4), body["totalSpanDays"])
}

func TestServer_FilterRoundTrip(t *testing.T) {
	srv := newTestServer(t, "")

	rec, body := doJSON(t, srv, http.MethodPost, "/api/filter", `{"region":"Wien"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["filteredRows"], "snapshot reflects the filter in the same response")

	state := body["state"].(map[string]any)
	assert.Equal(t, "Wien", state["region"])

	t.Run("range update keeps the untouched bound", func(t *testing.T) {
		rec, body := doJSON(t, srv, http.MethodPost, "/api/filter", `{"offsetMax":1}`)
		require.Equal(t, http.StatusOK, rec.Code)
		state := body["state"].(map[string]any)
		assert.Equal(t, float64(0), state["offsetMin"])
		assert.Equal(t, float64(1), state["offsetMax"])
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		rec, _ := doJSON(t, srv, http.MethodPost, "/api/filter", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		rec, _ := doJSON(t, srv, http.MethodPost, "/api/filter", `{broken`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_SelectAndReset(t *testing.T) {
	srv := newTestServer(t, "")

	rec, body := doJSON(t, srv, http.MethodPost, "/api/select", `{"chart":"region","label":"Tirol"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	state := body["state"].(map[string]any)
	assert.Equal(t, "Tirol", state["region"])
	assert.Equal(t, float64(1), body["filteredRows"])

	rec, body = doJSON(t, srv, http.MethodPost, "/api/select", `{"chart":"region","deselect":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	state = body["state"].(map[string]any)
	assert.Equal(t, "", state["region"])

	t.Run("unknown chart kind", func(t *testing.T) {
		rec, _ := doJSON(t, srv, http.MethodPost, "/api/select", `{"chart":"sankey","label":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		_, _ = doJSON(t, srv, http.MethodPost, "/api/filter", `{"region":"Wien","mapRelative":true}`)

		rec, body := doJSON(t, srv, http.MethodPost, "/api/reset", "")
		require.Equal(t, http.StatusOK, rec.Code)
		state := body["state"].(map[string]any)
		assert.Equal(t, "", state["region"])
		assert.Equal(t, "", state["category"])
		assert.Equal(t, false, state["mapRelative"])
		assert.Equal(t, float64(4), state["offsetMax"])
	})
}

func TestServer_Boundaries(t *testing.T) {
	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[
			{"type":"Feature","properties":{"name":"Wien"},
			 "geometry":{"type":"Polygon","coordinates":[[[16.2,48.1],[16.5,48.1],[16.5,48.3],[16.2,48.1]]]}}]}`))
	}))
	t.Cleanup(geoSrv.Close)

	srv := newTestServer(t, geoSrv.URL)

	rec, body := doJSON(t, srv, http.MethodGet, "/api/boundaries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "FeatureCollection", body["type"])
	assert.Len(t, body["features"], 1)
}

func TestServer_BoundariesDegradeGracefully(t *testing.T) {
	srv := newTestServer(t, "")

	rec, _ := doJSON(t, srv, http.MethodGet, "/api/boundaries", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// The other chart data stays available.
	rec, _ = doJSON(t, srv, http.MethodGet, "/api/snapshot", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Dashboard(t *testing.T) {
	srv := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}
