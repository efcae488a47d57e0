package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/shared"
)

type stubAccountRepo struct {
	accounts map[string]*Account
	updated  map[string]string
}

func (s *stubAccountRepo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	a, ok := s.accounts[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (s *stubAccountRepo) UpdatePassword(ctx context.Context, email, hash string) error {
	if s.updated == nil {
		s.updated = map[string]string{}
	}
	s.updated[email] = hash
	return nil
}

type captureMailer struct {
	email string
	token string
	sent  int
}

func (m *captureMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.email, m.token, m.sent = email, token, m.sent+1
	return nil
}

type noPerms struct{}

func (noPerms) ActionsByEmail(ctx context.Context, email string) (authz.ActionSet, bool, error) {
	return nil, false, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func newTestService(t *testing.T, repo *stubAccountRepo, mailer ResetMailer) *Service {
	t.Helper()
	resolver := authz.NewResolver(noPerms{}, authz.FallbackOfficer, nil, nil)
	return NewService(repo, resolver, mailer, "test-reset-secret", nil)
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := &stubAccountRepo{accounts: map[string]*Account{
		"manager@example.com": {
			ID:           7,
			Email:        "manager@example.com",
			Name:         "Manager",
			PasswordHash: hash(t, "correct horse"),
			Groups:       []string{authz.GroupHRManager},
			IsActive:     true,
		},
	}}
	svc := newTestService(t, repo, nil)

	p, err := svc.Authenticate(context.Background(), "  Manager@Example.COM ", "correct horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if p.Role != authz.RoleHRManager {
		t.Fatalf("got role %v", p.Role)
	}
	if p.ID != "USR-7" {
		t.Fatalf("got id %q", p.ID)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := &stubAccountRepo{accounts: map[string]*Account{
		"manager@example.com": {
			Email:        "manager@example.com",
			PasswordHash: hash(t, "correct horse"),
			IsActive:     true,
			Groups:       []string{authz.GroupHRManager},
		},
	}}
	svc := newTestService(t, repo, nil)

	if _, err := svc.Authenticate(context.Background(), "manager@example.com", "wrong"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateUnknownAccountLooksLikeBadPassword(t *testing.T) {
	svc := newTestService(t, &stubAccountRepo{}, nil)
	if _, err := svc.Authenticate(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, shared.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	repo := &stubAccountRepo{accounts: map[string]*Account{
		"gone@example.com": {
			Email:        "gone@example.com",
			PasswordHash: hash(t, "still correct"),
			IsActive:     false,
			Groups:       []string{authz.GroupHROfficer},
		},
	}}
	svc := newTestService(t, repo, nil)

	if _, err := svc.Authenticate(context.Background(), "gone@example.com", "still correct"); !errors.Is(err, shared.ErrAccountInactive) {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestAuthenticateRequiresReset(t *testing.T) {
	repo := &stubAccountRepo{accounts: map[string]*Account{
		"new@example.com": {
			Email:                "new@example.com",
			PasswordHash:         hash(t, "temporary99"),
			IsActive:             true,
			RequirePasswordReset: true,
			Groups:               []string{authz.GroupHROfficer},
		},
	}}
	svc := newTestService(t, repo, nil)

	if _, err := svc.Authenticate(context.Background(), "new@example.com", "temporary99"); !errors.Is(err, shared.ErrNewPasswordRequired) {
		t.Fatalf("expected ErrNewPasswordRequired, got %v", err)
	}
}

func TestPasswordResetRoundTrip(t *testing.T) {
	repo := &stubAccountRepo{accounts: map[string]*Account{
		"kemi@example.com": {
			ID:           3,
			Email:        "kemi@example.com",
			PasswordHash: hash(t, "old password"),
			IsActive:     true,
			Groups:       []string{authz.GroupHROfficer},
		},
	}}
	mailer := &captureMailer{}
	svc := newTestService(t, repo, mailer)

	if err := svc.RequestPasswordReset(context.Background(), "Kemi@Example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if mailer.sent != 1 || mailer.email != "kemi@example.com" || mailer.token == "" {
		t.Fatalf("token not delivered: %+v", mailer)
	}

	if err := svc.ConfirmPasswordReset(context.Background(), mailer.token, "a new long password"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	newHash, ok := repo.updated["kemi@example.com"]
	if !ok {
		t.Fatalf("password not updated")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(newHash), []byte("a new long password")); err != nil {
		t.Fatalf("stored hash does not match new password: %v", err)
	}
}

func TestRequestResetUnknownEmailSucceedsSilently(t *testing.T) {
	mailer := &captureMailer{}
	svc := newTestService(t, &stubAccountRepo{}, mailer)

	if err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if mailer.sent != 0 {
		t.Fatalf("no mail should be sent for unknown email")
	}
}

func TestConfirmResetRejectsWeakPassword(t *testing.T) {
	svc := newTestService(t, &stubAccountRepo{}, nil)
	if err := svc.ConfirmPasswordReset(context.Background(), "any", "short"); !errors.Is(err, shared.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestConfirmResetRejectsGarbageToken(t *testing.T) {
	svc := newTestService(t, &stubAccountRepo{}, nil)
	if err := svc.ConfirmPasswordReset(context.Background(), "not-a-token", "a new long password"); !errors.Is(err, shared.ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}

func TestConfirmResetRejectsForeignSignature(t *testing.T) {
	repo := &stubAccountRepo{accounts: map[string]*Account{
		"kemi@example.com": {ID: 3, Email: "kemi@example.com", IsActive: true, Groups: []string{authz.GroupHROfficer}},
	}}
	mailer := &captureMailer{}
	issuing := newTestService(t, repo, mailer)
	if err := issuing.RequestPasswordReset(context.Background(), "kemi@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}

	resolver := authz.NewResolver(noPerms{}, authz.FallbackOfficer, nil, nil)
	other := NewService(repo, resolver, nil, "different-secret", nil)
	if err := other.ConfirmPasswordReset(context.Background(), mailer.token, "a new long password"); !errors.Is(err, shared.ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}

func TestResolveByEmailReflectsPermissionEdits(t *testing.T) {
	repo := &stubAccountRepo{accounts: map[string]*Account{
		"kemi@example.com": {ID: 3, Email: "kemi@example.com", IsActive: true, Groups: []string{authz.GroupHROfficer}},
	}}
	svc := newTestService(t, repo, nil)

	p, err := svc.ResolveByEmail(context.Background(), "kemi@example.com")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if authz.Can(p, authz.ActionViewEmployee) {
		t.Fatalf("officer without record must hold nothing")
	}
}
