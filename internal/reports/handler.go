package reports

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
)

// Handler serves the dashboard aggregate and report exports.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   authz.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard authz.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers report routes. The dashboard is open to any signed-in
// principal with a view or reports capability; exports require the reports
// capability.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAction(authz.ActionGenerateReports))
		r.Get("/headcount", h.headcount)
		r.Get("/headcount.csv", h.headcountCSV)
	})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.Dashboard(r.Context(), authz.PrincipalFromContext(r.Context()))
	if err != nil {
		h.logger.Error("dashboard build failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

func (h *Handler) headcount(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Headcount(r.Context(), authz.PrincipalFromContext(r.Context()))
	if err != nil {
		h.logger.Error("headcount report failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"departments": rows})
}

func (h *Handler) headcountCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Headcount(r.Context(), authz.PrincipalFromContext(r.Context()))
	if err != nil {
		h.logger.Error("headcount export failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="headcount_%s.csv"`, time.Now().UTC().Format("2006-01-02")))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Department", "Total", "Active"})
	for _, row := range rows {
		_ = cw.Write([]string{row.Department, strconv.Itoa(row.Total), strconv.Itoa(row.Active)})
	}
	cw.Flush()
}
