package reports

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/meridian-hr/meridian-hr/internal/activity"
	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/employees"
	"github.com/meridian-hr/meridian-hr/internal/leave"
	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
)

const recentActivityLimit = 10

// Dashboard aggregates the landing-page panels in one response.
type Dashboard struct {
	Employees           employees.Stats      `json:"employees"`
	Documents           int                  `json:"documents"`
	OnLeave             []leave.ActiveRecord `json:"on_leave"`
	RecentActivity      []activity.Entry     `json:"recent_activity,omitempty"`
	ActivityUnavailable bool                 `json:"activity_unavailable,omitempty"`
}

// DepartmentHeadcount is one row of the headcount report.
type DepartmentHeadcount struct {
	Department string `json:"department"`
	Total      int    `json:"total"`
	Active     int    `json:"active"`
}

// Service assembles reports from the other domains. Concurrent dashboard
// requests are collapsed through a single flight; access is checked before
// joining the flight, so sharing the result across callers is safe.
type Service struct {
	logger    *slog.Logger
	employees *employees.Service
	documents DocumentCounter
	leave     *leave.Service
	activity  *activity.Service
	flight    singleflight.Group
}

// DocumentCounter reports how many documents are stored.
type DocumentCounter interface {
	Count(ctx context.Context) (int, error)
}

// NewService builds a Service instance.
func NewService(logger *slog.Logger, emp *employees.Service, docs DocumentCounter, lv *leave.Service, act *activity.Service) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, employees: emp, documents: docs, leave: lv, activity: act}
}

// Dashboard builds the landing-page aggregate. When the activity store is
// unavailable the panel is flagged rather than failing the whole dashboard.
// The recent-activity panel is withheld from officers.
func (s *Service) Dashboard(ctx context.Context, actor *authz.Principal) (Dashboard, error) {
	if !authz.Can(actor, authz.ActionViewEmployee) && !authz.Can(actor, authz.ActionGenerateReports) {
		return Dashboard{}, httpx.ErrForbidden
	}

	v, err, _ := s.flight.Do("dashboard", func() (any, error) {
		return s.assemble(ctx, actor)
	})
	if err != nil {
		return Dashboard{}, err
	}
	dash := v.(Dashboard)

	if !authz.IsAtLeast(actor, authz.RoleHRManager) {
		dash.RecentActivity = nil
		dash.ActivityUnavailable = false
	}
	return dash, nil
}

func (s *Service) assemble(ctx context.Context, actor *authz.Principal) (Dashboard, error) {
	var dash Dashboard

	stats, err := s.employees.Stats(ctx, actor)
	if err != nil {
		return Dashboard{}, err
	}
	dash.Employees = stats

	count, err := s.documents.Count(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	dash.Documents = count

	onLeave, err := s.leave.ActiveToday(ctx, actor)
	if err != nil {
		return Dashboard{}, err
	}
	dash.OnLeave = onLeave

	recent, err := s.activity.Recent(ctx, recentActivityLimit)
	switch {
	case errors.Is(err, activity.ErrUnavailable):
		s.logger.Warn("activity store unavailable, dashboard degrades", slog.Any("error", err))
		dash.ActivityUnavailable = true
	case err != nil:
		return Dashboard{}, err
	default:
		dash.RecentActivity = recent
	}
	return dash, nil
}

// Headcount breaks the workforce down by department, alphabetically.
func (s *Service) Headcount(ctx context.Context, actor *authz.Principal) ([]DepartmentHeadcount, error) {
	if !authz.Can(actor, authz.ActionGenerateReports) {
		return nil, httpx.ErrForbidden
	}
	all, err := s.employees.List(ctx, actor)
	if err != nil {
		return nil, err
	}

	title := cases.Title(language.English)
	byDept := make(map[string]*DepartmentHeadcount)
	for _, e := range all {
		name := title.String(strings.TrimSpace(e.Department))
		if name == "" {
			name = "Unassigned"
		}
		row, ok := byDept[name]
		if !ok {
			row = &DepartmentHeadcount{Department: name}
			byDept[name] = row
		}
		row.Total++
		if e.Status == employees.StatusActive {
			row.Active++
		}
	}

	out := make([]DepartmentHeadcount, 0, len(byDept))
	for _, row := range byDept {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out, nil
}
