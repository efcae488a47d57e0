package leave

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
	"github.com/meridian-hr/meridian-hr/internal/shared"
)

// Handler manages leave record endpoints.
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

// MountRoutes registers leave routes. Reads ride the employee view action,
// mutations the edit action.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAction(authz.ActionViewEmployee))
		r.Get("/employee/{employeeID}", h.listByEmployee)
		r.Get("/active", h.activeToday)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAction(authz.ActionEditEmployee))
		r.Post("/employee/{employeeID}", h.create)
		r.Put("/{leaveID}", h.update)
		r.Delete("/{leaveID}", h.delete)
	})
}

type leaveRequest struct {
	LeaveType  string `json:"leave_type" validate:"required,max=50"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason     string `json:"reason" validate:"max=500"`
	Status     string `json:"status" validate:"required,oneof=Pending Approved Rejected"`
	ApprovedBy string `json:"approved_by" validate:"max=120"`
}

func (h *Handler) listByEmployee(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListByEmployee(r.Context(), authz.PrincipalFromContext(r.Context()), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"leave_records": records})
}

func (h *Handler) activeToday(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ActiveToday(r.Context(), authz.PrincipalFromContext(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"on_leave": records})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeForm(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), authz.PrincipalFromContext(r.Context()), chi.URLParam(r, "employeeID"), form)
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
	updated, err := h.service.Update(r.Context(), authz.PrincipalFromContext(r.Context()), chi.URLParam(r, "leaveID"), form)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), authz.PrincipalFromContext(r.Context()), chi.URLParam(r, "leaveID")); err != nil {
		h.respondError(w, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (FormData, bool) {
	var req leaveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return FormData{}, false
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return FormData{}, false
	}
	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	return FormData{
		LeaveType:  req.LeaveType,
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
		Status:     Status(req.Status),
		ApprovedBy: req.ApprovedBy,
	}, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.RespondError(w, httpx.ErrNotFound)
		return
	}
	h.logger.Error("leave operation failed", slog.Any("error", err))
	httpx.RespondError(w, err)
}
