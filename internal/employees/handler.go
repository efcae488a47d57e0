package employees

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
	"github.com/meridian-hr/meridian-hr/internal/shared"
)

// Handler manages employee record endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers employee routes. Routes are gated by action so an
// officer without the capability never reaches the handler; the service
// re-checks defensively with the same evaluator.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAction(authz.ActionViewEmployee))
		r.Get("/", h.list)
		r.Get("/{employeeID}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAction(authz.ActionCreateEmployee))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAction(authz.ActionEditEmployee))
		r.Put("/{employeeID}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAction(authz.ActionDeleteEmployee))
		r.Delete("/{employeeID}", h.delete)
	})
}

type employeeRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Department string `json:"department" validate:"required,max=100"`
	Position   string `json:"position" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"max=30"`
	Status     string `json:"status" validate:"required,oneof=Active Inactive"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor := authz.PrincipalFromContext(r.Context())

	var (
		list []Employee
		err  error
	)
	if query := r.URL.Query().Get("q"); query != "" {
		list, err = h.service.Search(r.Context(), actor, query)
	} else {
		list, err = h.service.List(r.Context(), actor)
	}
	if err != nil {
		h.logger.Error("list employees failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	paging := shared.NewPagination(page, perPage, len(list))
	start, end := paging.Window(len(list))

	httpx.JSON(w, http.StatusOK, map[string]any{
		"employees":  list[start:end],
		"pagination": paging,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	employee, err := h.service.Get(r.Context(), authz.PrincipalFromContext(r.Context()), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, employee)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), authz.PrincipalFromContext(r.Context()), form)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), authz.PrincipalFromContext(r.Context()), chi.URLParam(r, "employeeID"), form)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), authz.PrincipalFromContext(r.Context()), chi.URLParam(r, "employeeID")); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (FormData, bool) {
	var req employeeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return FormData{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return FormData{}, false
	}
	return FormData{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Department: req.Department,
		Position:   req.Position,
		Email:      req.Email,
		Phone:      req.Phone,
		Status:     Status(req.Status),
	}, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case isNotFound(err):
		httpx.RespondError(w, httpx.ErrNotFound)
	case isDuplicate(err):
		httpx.RespondError(w, httpx.ErrDuplicate)
	default:
		h.logger.Error("employee operation failed", slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEmail)
}
