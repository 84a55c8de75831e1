package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/events"
	"github.com/spec-kit/library-service/internal/repository"
	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

// MinPasswordLength applies to new passwords set through reset or profile update.
const MinPasswordLength = 6

// AuthResult is returned by every flow that mints a token.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Role      domain.Role
}

// AuthService coordinates registration, login, refresh and password reset.
// It is the only writer of credentials during auth flows.
type AuthService struct {
	tokens     *auth.TokenManager
	accounts   repository.AccountRepository
	bcryptCost int
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(tokens *auth.TokenManager, accounts repository.AccountRepository, bcryptCost int, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		tokens:     tokens,
		accounts:   accounts,
		bcryptCost: bcryptCost,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Register creates a USER account and returns its first token.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, apperrors.NewValidationError("email and password are required", nil)
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateIdentity(email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, hashError("password", err)
	}

	user := &domain.User{
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if err := s.accounts.Create(ctx, user); err != nil {
		// A concurrent registration can pass the pre-check; the unique index decides.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewDuplicateIdentity(email)
		}
		return nil, apperrors.NewInternalError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventAccountRegistered, email, events.AccountPayload{UserID: user.ID, Email: email}))
	return s.issue(user)
}

// Login authenticates by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	user, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInternalError(err)
		}
		_ = auth.CompareDummy(password)
		return nil, apperrors.NewInvalidCredentials("invalid email or password")
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials("invalid email or password")
	}
	return s.issue(user)
}

// Refresh exchanges a valid token for a new one carrying the current role.
func (s *AuthService) Refresh(ctx context.Context, token string) (*AuthResult, error) {
	subject, ok := s.tokens.ExtractSubject(token)
	if !ok {
		return nil, apperrors.NewInvalidToken()
	}

	user, err := s.accounts.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInvalidToken()
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.issue(user)
}

// ResetPassword replaces the caller's password after checking the current one.
func (s *AuthService) ResetPassword(ctx context.Context, identity *domain.Identity, currentPassword, newPassword string) error {
	if identity == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if strings.TrimSpace(currentPassword) == "" || strings.TrimSpace(newPassword) == "" {
		return apperrors.NewValidationError("current and new password are required", nil)
	}
	if err := checkNewPassword("newPassword", newPassword); err != nil {
		return err
	}

	user, err := s.accounts.FindByEmail(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewUnauthorized("account no longer exists")
		}
		return apperrors.NewInternalError(err)
	}

	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials("current password is incorrect")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return hashError("newPassword", err)
	}
	user.PasswordHash = hash
	if err := s.accounts.Update(ctx, user); err != nil {
		return apperrors.NewInternalError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.NewEvent(events.EventPasswordChanged, user.Email, events.AccountPayload{UserID: user.ID, Email: user.Email}))
	return nil
}

// TokenManager exposes the token codec for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: exp, Role: user.Role}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkNewPassword enforces the length bounds for a password about to be hashed.
func checkNewPassword(field, password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return apperrors.NewValidationError("new password is too short", map[string]any{
			field: "must be at least 6 characters",
		})
	}
	if len(password) > auth.MaxPasswordBytes {
		return passwordTooLong(field)
	}
	return nil
}

func hashError(field string, err error) error {
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return passwordTooLong(field)
	}
	return apperrors.NewInternalError(err)
}

func passwordTooLong(field string) error {
	return apperrors.NewValidationError("password is too long", map[string]any{
		field: "must be at most 72 bytes",
	})
}
