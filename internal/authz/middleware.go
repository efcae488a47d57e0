package authz

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/meridian-hr/meridian-hr/internal/platform/httpx"
)

type principalContextKey struct{}

// ContextWithPrincipal stores the resolved principal in the context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal; nil means unauthenticated.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}

// Middleware wires authorization checks for HTTP handlers. The same Can
// evaluator gates route registration and in-handler defensive checks, so the
// two can never disagree.
type Middleware struct {
	Logger *slog.Logger
}

// RequireAction rejects requests whose principal may not perform the action.
func (m Middleware) RequireAction(action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if !Can(p, action) {
				m.logDenied(p, "action", string(action), r)
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects principals whose role is not in the given set.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if !HasRole(p, roles...) {
				m.logDenied(p, "role", p.Role.String(), r)
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAtLeast rejects principals ranked below the given role.
func (m Middleware) RequireAtLeast(role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromContext(r.Context())
			if p == nil {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if !IsAtLeast(p, role) {
				m.logDenied(p, "at-least", role.String(), r)
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) logDenied(p *Principal, kind, want string, r *http.Request) {
	if m.Logger == nil {
		return
	}
	m.Logger.Warn("authorization denied",
		slog.String("email", p.Email),
		slog.String("check", kind),
		slog.String("required", want),
		slog.String("path", r.URL.Path))
}
