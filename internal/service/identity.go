package service

import (
	"context"
	"errors"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/repository"
	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

// currentUser loads the account behind an identity. A nil identity or a
// vanished account is Unauthorized.
func currentUser(ctx context.Context, accounts repository.AccountRepository, identity *domain.Identity) (*domain.User, error) {
	if identity == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	user, err := accounts.FindByEmail(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("account no longer exists")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// storeError maps repository sentinels onto domain errors.
func storeError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", nil)
	default:
		return apperrors.NewInternalError(err)
	}
}
