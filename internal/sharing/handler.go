package sharing

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"sitecam/internal/footage"
	"sitecam/internal/platform/logger"
	"sitecam/internal/platform/respond"

	"github.com/go-chi/chi/v5"
)

// Handler exposes share links over HTTP using go-chi.
type Handler struct {
	svc *Service
	log *slog.Logger
}

func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// Register mounts the routes on r (usually /api/shares).
func (h *Handler) Register(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/{token}", h.Get)
}

// Create handles POST /api/shares.
// Body: { "clipKey": "2025-04-04_1455.mp4", "message": "...", "recipients": ["a@b.c"] }.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid json body")
		return
	}

	sh, err := h.svc.Create(r.Context(), req)
	switch {
	case err == nil:
		respond.JSON(w, http.StatusCreated, sh)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, footage.ErrClipNotFound):
		respond.Error(w, http.StatusNotFound, footage.ErrClipNotFound.Error())
	default:
		h.log.Error("create share failed", logger.Err(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// Get handles GET /api/shares/{token}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sh, err := h.svc.Get(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, ErrNotFound.Error())
		return
	}
	respond.JSON(w, http.StatusOK, sh)
}
