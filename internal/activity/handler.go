package activity

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
)

// Handler exposes the activity trail over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers activity routes. The trail is visible to managers
// and above; deleting entries is reserved for super admins.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAtLeast(authz.RoleHRManager))
		r.Get("/", h.list)
		r.Get("/recent", h.recent)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(authz.RoleSuperAdmin))
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.All(r.Context())
	if err != nil {
		h.respondReadError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) recent(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httpx.RespondError(w, httpx.ErrValidation)
			return
		}
		limit = parsed
	}
	entries, err := h.service.Recent(r.Context(), limit)
	if err != nil {
		h.respondReadError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) respondReadError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUnavailable) {
		httpx.RespondError(w, httpx.ErrUnavailable)
		return
	}
	h.logger.Error("activity read failed", slog.Any("error", err))
	httpx.RespondError(w, err)
}
