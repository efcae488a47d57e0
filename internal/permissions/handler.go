package permissions

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
)

// Handler manages officer permission endpoints. All routes require manager
// rank or above: officers never administer officers.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers permission routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAtLeast(authz.RoleHRManager))
		r.Get("/officers", h.listOfficers)
		r.Post("/officers", h.createOfficer)
		r.Put("/officers/{userID}", h.replaceActions)
		r.Delete("/officers/{userID}", h.deleteOfficer)
		r.Get("/actions", h.listActions)
	})
}

type officerRequest struct {
	Email   string   `json:"email" validate:"required,email"`
	Name    string   `json:"name" validate:"max=200"`
	Actions []string `json:"allowed_actions" validate:"dive,required"`
}

type actionsRequest struct {
	Actions []string `json:"allowed_actions" validate:"required,dive,required"`
}

func (h *Handler) listOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.service.ListOfficers(r.Context())
	if err != nil {
		h.logger.Error("list officers failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"officers": officers})
}

func (h *Handler) createOfficer(w http.ResponseWriter, r *http.Request) {
	var req officerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	actions, err := parseActions(req.Actions)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	officer, err := h.service.CreateOfficer(r.Context(), req.Email, req.Name, actions, authz.PrincipalFromContext(r.Context()))
	if err != nil {
		h.respondMutationError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, officer)
}

func (h *Handler) replaceActions(w http.ResponseWriter, r *http.Request) {
	var req actionsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	actions, err := parseActions(req.Actions)
	if err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	officer, err := h.service.ReplaceAllowedActions(r.Context(), chi.URLParam(r, "userID"), actions, authz.PrincipalFromContext(r.Context()))
	if err != nil {
		h.respondMutationError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, officer)
}

func (h *Handler) deleteOfficer(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteOfficer(r.Context(), chi.URLParam(r, "userID"), authz.PrincipalFromContext(r.Context())); err != nil {
		h.respondMutationError(w, err)
		return
	}
	httpx.NoContent(w)
}

// listActions exposes the closed action set with display labels so the
// admin UI never hardcodes tokens.
func (h *Handler) listActions(w http.ResponseWriter, r *http.Request) {
	type actionInfo struct {
		Token string `json:"token"`
		Label string `json:"label"`
	}
	all := authz.AllActions()
	out := make([]actionInfo, len(all))
	for i, a := range all {
		out[i] = actionInfo{Token: string(a), Label: a.Label()}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"actions": out})
}

func (h *Handler) respondMutationError(w http.ResponseWriter, err error) {
	switch {
	case isNotFound(err):
		httpx.RespondError(w, httpx.ErrNotFound)
	case isDuplicate(err):
		httpx.RespondError(w, httpx.ErrDuplicate)
	default:
		h.logger.Error("permission mutation failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func parseActions(raw []string) ([]authz.Action, error) {
	actions := make([]authz.Action, 0, len(raw))
	for _, token := range raw {
		action, err := authz.ParseAction(token)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}
