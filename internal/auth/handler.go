package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
	"github.com/meridian-hr/meridian-hr/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	sessions  *shared.SessionManager
	csrf      *shared.CSRFManager
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		sessions:  sessions,
		csrf:      csrf,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/me", h.me)
	r.Post("/password-reset/request", h.requestReset)
	r.Post("/password-reset/confirm", h.confirmReset)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type resetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetConfirmRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type principalResponse struct {
	UserID         string   `json:"user_id"`
	Email          string   `json:"email"`
	Name           string   `json:"name,omitempty"`
	Role           string   `json:"role"`
	RoleLabel      string   `json:"role_label"`
	AllowedActions []string `json:"allowed_actions,omitempty"`
	CSRFToken      string   `json:"csrf_token,omitempty"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}

	principal, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		httpx.RespondError(w, errors.New("session unavailable"))
		return
	}
	// The session changes privilege level here, so it gets a new ID; the
	// pre-auth cookie value stops resolving to anything.
	if err := h.sessions.Renew(r.Context(), sess); err != nil {
		h.logger.Error("session renew failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	sess.SetEmail(principal.Email)
	token, _ := h.csrf.EnsureToken(sess)

	httpx.JSON(w, http.StatusOK, toPrincipalResponse(principal, token))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessions.Destroy(sess)
	}
	httpx.NoContent(w)
}

// me returns the current principal, re-resolved on this request. The UI
// uses it to decide which actions to render; the same evaluator re-checks
// at every mutation.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal := authz.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var token string
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		token, _ = h.csrf.EnsureToken(sess)
	}
	httpx.JSON(w, http.StatusOK, toPrincipalResponse(principal, token))
}

func (h *Handler) requestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error("password reset request failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handler) confirmReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	if err := h.service.ConfirmPasswordReset(r.Context(), req.Token, req.NewPassword); err != nil {
		h.respondAuthError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		httpx.Problem(w, http.StatusUnauthorized, "Invalid Credentials", "email or password is incorrect")
	case errors.Is(err, shared.ErrAccountInactive):
		httpx.Problem(w, http.StatusForbidden, "Account Inactive", "this account has been deactivated")
	case errors.Is(err, shared.ErrNewPasswordRequired):
		httpx.Problem(w, http.StatusForbidden, "New Password Required", "a new password must be set before signing in")
	case errors.Is(err, shared.ErrResetTokenInvalid):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Reset Token", err.Error())
	case errors.Is(err, shared.ErrWeakPassword):
		httpx.Problem(w, http.StatusBadRequest, "Weak Password", err.Error())
	case errors.Is(err, authz.ErrUnmappedGroups):
		httpx.Problem(w, http.StatusForbidden, "No Role Assigned", "no recognized group membership")
	default:
		h.logger.Error("authentication failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func toPrincipalResponse(p *authz.Principal, csrfToken string) principalResponse {
	resp := principalResponse{
		UserID:    p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      p.Role.String(),
		RoleLabel: p.Role.Label(),
		CSRFToken: csrfToken,
	}
	if p.Role == authz.RoleHROfficer {
		for _, a := range p.AllowedActions.Slice() {
			resp.AllowedActions = append(resp.AllowedActions, string(a))
		}
	}
	return resp
}
