// Package httpapi exposes the dashboard's control/snapshot API plus the
// health, readiness, and metrics endpoints. Controls do not own widget
// rendering; they post typed filter events and read snapshots back.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anton95i/device-insights/internal/controller"
	"github.com/anton95i/device-insights/internal/dataset"
	"github.com/anton95i/device-insights/internal/geo"
)

// Server wires the router and the underlying http.Server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	ctrl       *controller.Controller
	store      *dataset.Store
	boundaries *geo.Loader
	viewWidth  int
}

// NewServer creates the dashboard HTTP server. dashboard serves the
// rendered chart page; boundaries feeds the choropleth front end.
func NewServer(addr string, ctrl *controller.Controller, store *dataset.Store, boundaries *geo.Loader, dashboard http.Handler, viewWidth int, logger *slog.Logger) *Server {
	s := &Server{
		logger:     logger,
		ctrl:       ctrl,
		store:      store,
		boundaries: boundaries,
		viewWidth:  viewWidth,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/dashboard", dashboard.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Get("/options", s.handleOptions)
		r.Get("/boundaries", s.handleBoundaries)
		r.Post("/filter", s.handleFilter)
		r.Post("/select", s.handleSelect)
		r.Post("/reset", s.handleReset)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ctrl.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleSnapshot returns the current render-ready view. An optional
// width query parameter re-scales the viewport zoom for the caller's
// display size.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.ctrl.Snapshot()

	if q := r.URL.Query().Get("width"); q != "" {
		width, err := strconv.Atoi(q)
		if err != nil || width <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "width must be a positive integer"})
			return
		}
		snap.Viewport = s.ctrl.Viewport(width)
	}

	writeJSON(w, http.StatusOK, snap)
}

// handleOptions lists the values the dropdown controls offer, in
// first-encounter dataset order.
func (s *Server) handleOptions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"regions":       s.store.Regions(),
		"categories":    s.store.Categories(),
		"totalSpanDays": s.store.TotalSpanDays(),
	})
}

// handleBoundaries serves the cached boundary dataset. A fetch failure
// degrades only the geographic chart, so it maps to 503 here while the
// other endpoints keep working.
func (s *Server) handleBoundaries(w http.ResponseWriter, r *http.Request) {
	fc, err := s.boundaries.Boundaries(r.Context())
	if err != nil {
		s.logger.Warn("boundary data unavailable", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "boundary data unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

type filterRequest struct {
	Region      *string `json:"region"`
	Category    *string `json:"category"`
	OffsetMin   *int    `json:"offsetMin"`
	OffsetMax   *int    `json:"offsetMax"`
	MapRelative *bool   `json:"mapRelative"`
}

// handleFilter applies control changes. Only fields present in the body
// are touched; each maps to its own typed event so exactly one mutation
// path exists per dimension.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	var events []controller.Event
	if req.Region != nil {
		events = append(events, controller.SetRegion{Region: *req.Region})
	}
	if req.Category != nil {
		events = append(events, controller.SetCategory{Category: *req.Category})
	}
	if req.OffsetMin != nil || req.OffsetMax != nil {
		state := s.ctrl.Snapshot().State
		min, max := state.OffsetMin, state.OffsetMax
		if req.OffsetMin != nil {
			min = *req.OffsetMin
		}
		if req.OffsetMax != nil {
			max = *req.OffsetMax
		}
		events = append(events, controller.SetOffsetRange{Min: min, Max: max})
	}
	if req.MapRelative != nil {
		events = append(events, controller.SetMapRelative{Relative: *req.MapRelative})
	}

	if len(events) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no filter fields in body"})
		return
	}

	for _, ev := range events {
		if err := s.ctrl.Dispatch(r.Context(), ev); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

type selectRequest struct {
	Chart    string `json:"chart"`
	Label    string `json:"label"`
	Deselect bool   `json:"deselect"`
}

// handleSelect forwards a chart click or double-click to the controller.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	kind := controller.ChartKind(req.Chart)
	switch kind {
	case controller.ChartTimeSeries, controller.ChartCategory, controller.ChartProduct, controller.ChartRegion:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown chart kind"})
		return
	}

	ev := controller.ChartSelection{Chart: kind, Label: req.Label, Deselect: req.Deselect}
	if err := s.ctrl.Dispatch(r.Context(), ev); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Dispatch(r.Context(), controller.ResetFilters{}); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
