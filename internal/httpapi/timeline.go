package httpapi

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"sitecam/internal/annotations"
	"sitecam/internal/footage"
	"sitecam/internal/platform/logger"
	"sitecam/internal/platform/respond"
	"sitecam/internal/timeline"

	"github.com/go-chi/chi/v5"
)

type timelineHandler struct {
	clips     *footage.Service
	artifacts *annotations.Service
	log       *slog.Logger
}

// GetDay handles GET /api/timeline/{date}?preset=&zoom=&focus=.
// The preset is applied first; zoom and focus override it.
func (h *timelineHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	vp, err := viewportFromQuery(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	clips, err := h.clips.ListClips(r.Context(), date)
	if err != nil {
		if errors.Is(err, footage.ErrInvalidDate) {
			respond.Error(w, http.StatusBadRequest, footage.ErrInvalidDate.Error())
			return
		}
		h.log.Error("list clips failed", slog.String("date", date), logger.Err(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	artifacts, err := h.artifacts.ForDay(r.Context(), date)
	if err != nil {
		h.log.Error("list artifacts failed", slog.String("date", date), logger.Err(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	day, err := timeline.BuildDay(date, clips, artifacts, vp)
	if err != nil {
		var dup *timeline.DuplicateClipError
		if !errors.As(err, &dup) {
			h.log.Error("build day failed", slog.String("date", date), logger.Err(err))
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		h.log.Warn("duplicate clips in footage",
			slog.String("date", date),
			slog.Any("start_times", dup.Keys))
	}

	respond.JSON(w, http.StatusOK, day)
}

// ListPresets handles GET /api/presets.
func (h *timelineHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, timeline.Presets)
}

func viewportFromQuery(r *http.Request) (*timeline.Viewport, error) {
	q := r.URL.Query()
	vp := timeline.NewViewport()

	if p := q.Get("preset"); p != "" {
		if err := vp.ApplyPreset(timeline.Preset(p)); err != nil {
			return nil, err
		}
	}
	if z := q.Get("zoom"); z != "" {
		zoom, err := strconv.ParseFloat(z, 64)
		if err != nil || math.IsNaN(zoom) || math.IsInf(zoom, 0) {
			return nil, errors.New("zoom must be a number")
		}
		vp.SetZoom(zoom)
	}
	if f := q.Get("focus"); f != "" {
		focus, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.New("focus must be an hour between 0 and 23")
		}
		vp.SetFocusHour(focus)
	}
	return vp, nil
}
