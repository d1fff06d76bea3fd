package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/anton95i/device-insights/internal/adapter/echarts"
	"github.com/anton95i/device-insights/internal/adapter/httpapi"
	"github.com/anton95i/device-insights/internal/config"
	"github.com/anton95i/device-insights/internal/controller"
	"github.com/anton95i/device-insights/internal/dataset"
	"github.com/anton95i/device-insights/internal/geo"
	"github.com/anton95i/device-insights/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	store, err := loadDataset(cfg, logger, metrics, clock)
	if err != nil {
		logger.Error("dataset load failed, no chart can render", "error", err)
		os.Exit(1)
	}

	atlas := geo.NewAtlas()
	boundaries := geo.NewLoader(cfg.BoundarySource, cfg.BoundaryTimeout, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the boundary cache before the controller shares the atlas.
	// A failed fetch degrades only the geographic chart; the first
	// boundary request will retry.
	if fc, err := boundaries.Boundaries(ctx); err != nil {
		logger.Warn("boundary data unavailable, geographic chart degraded", "error", err)
	} else {
		atlas.AddBoundaryCenters(fc)
	}

	dash := echarts.NewDashboard(logger)
	surfaces := controller.Surfaces{
		TimeSeries: controller.SurfaceFunc(dash.SetTimeSeries),
		Category:   controller.SurfaceFunc(dash.SetCategories),
		Product:    controller.SurfaceFunc(dash.SetProducts),
		Region:     controller.RegionSurfaceFunc(dash.SetRegions),
	}

	ctrl := controller.New(store, atlas, surfaces, logger, metrics, clock, cfg.DefaultViewWidth)
	srv := httpapi.NewServer(cfg.HTTPAddr, ctrl, store, boundaries, dash, cfg.DefaultViewWidth, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := ctrl.Run(ctx); err != nil {
			logger.Error("controller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

func loadDataset(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) (*dataset.Store, error) {
	f, err := os.Open(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := dataset.ReadCSV(f)
	if err != nil {
		return nil, err
	}

	store, err := dataset.Load(records, dataset.Options{MinCreatedDate: cfg.MinCreatedDate}, clock)
	if err != nil {
		return nil, err
	}

	stats := store.Stats()
	metrics.DatasetRows.Set(float64(stats.Retained))
	for reason, n := range stats.Skipped {
		metrics.RowsSkipped.WithLabelValues(reason).Add(float64(n))
	}

	logger.Info("dataset loaded",
		"path", cfg.DatasetPath,
		"rows", stats.Retained,
		"skipped", len(records)-stats.Retained,
		"earliest", store.Earliest().Format("2006-01-02"),
		"latest", store.Latest().Format("2006-01-02"),
		"span_days", store.TotalSpanDays(),
	)
	return store, nil
}
