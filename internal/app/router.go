package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-hr/meridian-hr/internal/activity"
	"github.com/meridian-hr/meridian-hr/internal/auth"
	"github.com/meridian-hr/meridian-hr/internal/documents"
	"github.com/meridian-hr/meridian-hr/internal/employees"
	"github.com/meridian-hr/meridian-hr/internal/leave"
	"github.com/meridian-hr/meridian-hr/internal/observability"
	"github.com/meridian-hr/meridian-hr/internal/permissions"
	"github.com/meridian-hr/meridian-hr/internal/reports"
	"github.com/meridian-hr/meridian-hr/internal/shared"
	"github.com/meridian-hr/meridian-hr/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Resolver       PrincipalResolver

	AuthHandler        *auth.Handler
	EmployeeHandler    *employees.Handler
	DocumentHandler    *documents.Handler
	LeaveHandler       *leave.Handler
	PermissionsHandler *permissions.Handler
	ActivityHandler    *activity.Handler
	ReportsHandler     *reports.Handler
	JobHandler         *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Meridian defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Resolver:       params.Resolver,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	r.Route("/employees", params.EmployeeHandler.MountRoutes)
	r.Route("/documents", params.DocumentHandler.MountRoutes)
	r.Route("/leave", params.LeaveHandler.MountRoutes)
	r.Route("/permissions", params.PermissionsHandler.MountRoutes)
	r.Route("/activity", params.ActivityHandler.MountRoutes)
	r.Route("/reports", params.ReportsHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
