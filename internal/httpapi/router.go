// Package httpapi assembles the sitecam HTTP surface.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"sitecam/internal/annotations"
	"sitecam/internal/footage"
	"sitecam/internal/platform/config"
	"sitecam/internal/platform/logger"
	"sitecam/internal/platform/metrics"
	"sitecam/internal/sharing"
	"sitecam/internal/timeline"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the services the router serves. Metrics may be nil; Now defaults
// to time.Now.
type Deps struct {
	Device    config.Device
	Log       *slog.Logger
	Metrics   *metrics.Metrics
	Clips     *footage.Service
	Artifacts *annotations.Service
	Shares    *sharing.Service
	Now       func() time.Time
}

// NewRouter returns the chi router with every route and middleware mounted.
func NewRouter(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(logger.RequestLogger(d.Log))
	r.Use(metrics.RequestMiddleware(d.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler(func() {
			refreshGauges(context.Background(), d)
		}))
	}

	tl := &timelineHandler{clips: d.Clips, artifacts: d.Artifacts, log: d.Log}
	dev := &deviceHandler{device: d.Device, clips: d.Clips, now: d.Now, log: d.Log}

	r.Route("/api", func(r chi.Router) {
		r.Get("/timeline/{date}", tl.GetDay)
		r.Get("/presets", tl.ListPresets)
		r.Get("/device/status", dev.GetStatus)

		r.Route("/clips", footage.NewHandler(d.Clips, d.Log).Register)
		r.Route("/annotations", annotations.NewHandler(d.Artifacts, timeline.KindAnnotation, d.Log).Register)
		r.Route("/noteflags", annotations.NewHandler(d.Artifacts, timeline.KindNoteFlag, d.Log).Register)
		r.Route("/bookmarks", annotations.NewHandler(d.Artifacts, timeline.KindBookmark, d.Log).Register)
		r.Route("/shares", sharing.NewHandler(d.Shares, d.Log).Register)
	})

	return r
}

func refreshGauges(ctx context.Context, d Deps) {
	counts, err := d.Artifacts.Counts(ctx)
	if err != nil {
		d.Log.Warn("artifact counts unavailable", logger.Err(err))
		return
	}
	for kind, n := range counts {
		d.Metrics.SetArtifactsStored(string(kind), n)
	}
}
