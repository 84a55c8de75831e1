package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/repository"
)

// ProfileUpdate carries optional profile changes. Nil fields are left as is.
type ProfileUpdate struct {
	FullName    *string
	NewPassword *string
}

// UserService serves the caller's own profile.
type UserService struct {
	accounts   repository.AccountRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService builds the service.
func NewUserService(accounts repository.AccountRepository, bcryptCost int, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{accounts: accounts, bcryptCost: bcryptCost, logger: logger}
}

// Me returns the caller's account.
func (s *UserService) Me(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	return currentUser(ctx, s.accounts, identity)
}

// UpdateProfile applies name and password changes.
func (s *UserService) UpdateProfile(ctx context.Context, identity *domain.Identity, upd ProfileUpdate) (*domain.User, error) {
	user, err := currentUser(ctx, s.accounts, identity)
	if err != nil {
		return nil, err
	}

	if upd.FullName != nil && strings.TrimSpace(*upd.FullName) != "" {
		user.FullName = strings.TrimSpace(*upd.FullName)
	}
	if upd.NewPassword != nil && *upd.NewPassword != "" {
		if err := checkNewPassword("newPassword", *upd.NewPassword); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*upd.NewPassword, s.bcryptCost)
		if err != nil {
			return nil, hashError("newPassword", err)
		}
		user.PasswordHash = hash
	}

	if err := s.accounts.Update(ctx, user); err != nil {
		return nil, storeError(err, "user")
	}
	s.logger.Info("profile updated", zap.String("user", user.Email))
	return user, nil
}

// DeleteAccount removes the caller's account. Outstanding tokens stop
// resolving to an identity on the next request.
func (s *UserService) DeleteAccount(ctx context.Context, identity *domain.Identity) error {
	user, err := currentUser(ctx, s.accounts, identity)
	if err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, user.ID); err != nil {
		return storeError(err, "user")
	}
	s.logger.Info("account deleted", zap.String("user", user.Email))
	return nil
}
