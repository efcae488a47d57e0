package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hr/meridian-hr/internal/authz"
	"github.com/meridian-hr/meridian-hr/internal/shared"
)

// MinPasswordLength is the weakest password the reset flow accepts.
const MinPasswordLength = 10

const resetTokenTTL = 30 * time.Minute

// ResetMailer delivers password reset tokens out of band.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo        Repository
	resolver    *authz.Resolver
	mailer      ResetMailer
	resetSecret []byte
	logger      *slog.Logger
}

// NewService constructs a Service. The mailer may be nil; reset requests
// then succeed silently without delivery (useful in tests).
func NewService(repo Repository, resolver *authz.Resolver, mailer ResetMailer, resetSecret string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		resolver:    resolver,
		mailer:      mailer,
		resetSecret: []byte(resetSecret),
		logger:      logger,
	}
}

// Authenticate validates email/password credentials and resolves the
// account into a principal. Credential failures are indistinguishable from
// unknown accounts by design.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*authz.Principal, error) {
	account, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, shared.ErrAccountInactive
	}
	if account.RequirePasswordReset {
		return nil, shared.ErrNewPasswordRequired
	}
	return s.resolvePrincipal(ctx, account)
}

// ResolveByEmail re-resolves the principal for an established session.
// Permission edits therefore apply on the next request, not the next login.
func (s *Service) ResolveByEmail(ctx context.Context, email string) (*authz.Principal, error) {
	if email == "" {
		return nil, shared.ErrNotFound
	}
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, shared.ErrAccountInactive
	}
	return s.resolvePrincipal(ctx, account)
}

// RequestPasswordReset issues a signed short-lived reset token and hands it
// to the mailer. Unknown emails succeed without delivery so the endpoint
// does not leak account existence.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.repo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	claims := jwt.RegisteredClaims{
		Subject:   email,
		Issuer:    "meridian-hr",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(resetTokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.resetSecret)
	if err != nil {
		return fmt.Errorf("auth: sign reset token: %w", err)
	}

	if s.mailer == nil {
		s.logger.Warn("reset mailer not configured, token not delivered", slog.String("email", email))
		return nil
	}
	return s.mailer.SendPasswordReset(ctx, email, token)
}

// ConfirmPasswordReset validates the token, enforces the strength policy,
// and stores the new hash.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return shared.ErrWeakPassword
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("auth: unexpected signing method %v", t.Header["alg"])
		}
		return s.resetSecret, nil
	}, jwt.WithIssuer("meridian-hr"), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return shared.ErrResetTokenInvalid
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return shared.ErrResetTokenInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, claims.Subject, string(hash))
}

func (s *Service) resolvePrincipal(ctx context.Context, account *Account) (*authz.Principal, error) {
	return s.resolver.Resolve(ctx, authz.Identity{
		UserID: fmt.Sprintf("USR-%d", account.ID),
		Email:  account.Email,
		Name:   account.Name,
		Groups: account.Groups,
	})
}
