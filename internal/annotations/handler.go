package annotations

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"sitecam/internal/platform/logger"
	"sitecam/internal/platform/respond"
	"sitecam/internal/timeline"

	"github.com/go-chi/chi/v5"
)

// Handler exposes one artifact kind over HTTP using go-chi.
type Handler struct {
	svc  *Service
	kind timeline.Kind
	log  *slog.Logger
}

// NewHandler returns a Handler serving artifacts of kind.
func NewHandler(svc *Service, kind timeline.Kind, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, kind: kind, log: log.With(slog.String("kind", string(kind)))}
}

// Register mounts the routes on r (e.g. /api/noteflags).
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/search", h.Search)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Update)
		r.Delete("/", h.Delete)
	})
}

// List handles GET /?date=YYYY-MM-DD.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), h.kind, r.URL.Query().Get("date"))
	if err != nil {
		h.fail(w, "list artifacts failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, items)
}

// Create handles POST /.
// Body: { "date": "2025-04-04", "clipTime": "14:55", "videoTime": "01:30", "content": "...", "isFlag": false }.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid artifact body", logger.Err(err))
		respond.Error(w, http.StatusBadRequest, "invalid json body")
		return
	}

	a, err := h.svc.Create(r.Context(), h.kind, req)
	if err != nil {
		h.fail(w, "create artifact failed", err)
		return
	}
	respond.JSON(w, http.StatusCreated, a)
}

// Get handles GET /{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	a, err := h.svc.Get(r.Context(), h.kind, id)
	if err != nil {
		h.fail(w, "get artifact failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

// Update handles PATCH /{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Debug("invalid artifact body", logger.Err(err))
		respond.Error(w, http.StatusBadRequest, "invalid json body")
		return
	}

	a, err := h.svc.Update(r.Context(), h.kind, id, req)
	if err != nil {
		h.fail(w, "update artifact failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, a)
}

// Delete handles DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), h.kind, id); err != nil {
		h.fail(w, "delete artifact failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /search?date=YYYY-MM-DD&q=crane.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hits, err := h.svc.Search(r.Context(), h.kind, q.Get("date"), q.Get("q"))
	if err != nil {
		h.fail(w, "search artifacts failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, hits)
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnknownKind):
		h.log.Debug(msg, logger.Err(err))
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error(msg, logger.Err(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
