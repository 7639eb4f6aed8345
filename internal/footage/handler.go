package footage

import (
	"errors"
	"log/slog"
	"net/http"

	"sitecam/internal/platform/logger"
	"sitecam/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

const playlistContentType = "application/vnd.apple.mpegurl"

// Handler exposes the clip repository over HTTP using go-chi.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler returns a Handler backed by svc.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts the clip routes on r (usually /api/clips).
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.ListClips)
	r.Get("/playlist.m3u8", h.GetPlaylist)
	r.Get("/{key}/url", h.GetURL)
}

// ListClips handles GET /api/clips?date=YYYY-MM-DD.
func (h *Handler) ListClips(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		respond.Error(w, http.StatusBadRequest, "date is required")
		return
	}

	clips, err := h.svc.ListClips(r.Context(), date)
	if err != nil {
		h.fail(w, "list clips failed", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"date":  date,
		"clips": clips,
	})
}

// GetURL handles GET /api/clips/{key}/url.
func (h *Handler) GetURL(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	u, err := h.svc.ResolveURL(r.Context(), key)
	if err != nil {
		h.fail(w, "resolve clip url failed", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{
		"key": key,
		"url": u,
	})
}

// GetPlaylist handles GET /api/clips/playlist.m3u8?date=YYYY-MM-DD&from=HH:MM.
func (h *Handler) GetPlaylist(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	if date == "" {
		respond.Error(w, http.StatusBadRequest, "date is required")
		return
	}

	m3u8, err := h.svc.Playlist(r.Context(), date, q.Get("from"))
	if err != nil {
		h.fail(w, "build playlist failed", err)
		return
	}

	w.Header().Set("Content-Type", playlistContentType)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(m3u8))
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, ErrInvalidDate):
		respond.Error(w, http.StatusBadRequest, ErrInvalidDate.Error())
	case errors.Is(err, ErrClipNotFound):
		respond.Error(w, http.StatusNotFound, ErrClipNotFound.Error())
	default:
		h.log.Error(msg, logger.Err(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
