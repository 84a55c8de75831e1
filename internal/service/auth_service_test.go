package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/library-service/internal/auth"
	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/events"
	"github.com/spec-kit/library-service/internal/repository"
	apperrors "github.com/spec-kit/library-service/pkg/util/errorutil"
)

const testSecret = "0123456789abcdef0123456789abcdef-key"

func newTestTokens(t *testing.T, ttl time.Duration) *auth.TokenManager {
	t.Helper()
	key, err := auth.BuildSigningKey(testSecret)
	require.NoError(t, err)
	tm, err := auth.NewTokenManager(key, ttl)
	require.NoError(t, err)
	return tm
}

func newTestAuthService(t *testing.T) (*AuthService, *memAccounts, events.Dispatcher) {
	t.Helper()
	accounts := newMemAccounts()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewAuthService(newTestTokens(t, time.Hour), accounts, bcrypt.MinCost, dispatcher, nil)
	return svc, accounts, dispatcher
}

func TestRegisterIssuesUserToken(t *testing.T) {
	svc, accounts, dispatcher := newTestAuthService(t)
	ctx := context.Background()

	var published []events.Event
	dispatcher.Subscribe(events.EventAccountRegistered, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	res, err := svc.Register(ctx, " Reader@Example.com ", "secret1", "Reader One")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, res.Role)
	assert.NotEmpty(t, res.Token)

	identity, ok := svc.TokenManager().Verify(res.Token)
	require.True(t, ok)
	assert.Equal(t, "reader@example.com", identity.Subject)
	assert.Equal(t, domain.RoleUser, identity.Role)

	stored, err := accounts.FindByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "secret1"))

	require.Len(t, published, 1)
	assert.Equal(t, "reader@example.com", published[0].Actor)
}

func TestRegisterDuplicateKeepsFirstTokenValid(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "dup@example.com", "secret1", "First")
	require.NoError(t, err)

	second, err := svc.Register(ctx, "dup@example.com", "other-secret", "Second")
	assert.Nil(t, second)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateIdentity)

	_, ok := svc.TokenManager().Verify(first.Token)
	assert.True(t, ok)
}

// notFoundAccounts hides existing rows from FindByEmail so only the unique
// index can detect the duplicate.
type notFoundAccounts struct {
	*memAccounts
}

func (notFoundAccounts) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func TestRegisterUniqueViolationMapsToDuplicate(t *testing.T) {
	accounts := newMemAccounts()
	require.NoError(t, accounts.Create(context.Background(), &domain.User{Email: "race@example.com", Role: domain.RoleUser}))

	svc := NewAuthService(newTestTokens(t, time.Hour), notFoundAccounts{accounts}, bcrypt.MinCost, nil, nil)
	_, err := svc.Register(context.Background(), "race@example.com", "secret1", "Racer")
	assert.ErrorIs(t, err, apperrors.ErrDuplicateIdentity)
}

func TestRegisterRequiresEmailAndPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	_, err := svc.Register(context.Background(), "  ", "secret1", "x")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = svc.Register(context.Background(), "a@b.com", "   ", "x")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "login@example.com", "secret1", "Login")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		res, err := svc.Login(ctx, "login@example.com", "secret1")
		require.NoError(t, err)
		identity, ok := svc.TokenManager().Verify(res.Token)
		require.True(t, ok)
		assert.Equal(t, "login@example.com", identity.Subject)
	})

	t.Run("wrong password issues no token", func(t *testing.T) {
		res, err := svc.Login(ctx, "login@example.com", "wrong-password")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown account looks the same", func(t *testing.T) {
		res, err := svc.Login(ctx, "nobody@example.com", "secret1")
		assert.Nil(t, res)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestLoginStoreFailureIsInternal(t *testing.T) {
	svc, accounts, _ := newTestAuthService(t)
	accounts.findErr = errors.New("connection refused")

	_, err := svc.Login(context.Background(), "x@example.com", "secret1")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, apperrors.CodeInternal, domainErr.Code)
}

func TestRefreshCarriesPersistedRole(t *testing.T) {
	svc, accounts, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "promote@example.com", "secret1", "Promote")
	require.NoError(t, err)

	user, err := accounts.FindByEmail(ctx, "promote@example.com")
	require.NoError(t, err)
	user.Role = domain.RoleAdmin
	require.NoError(t, accounts.Update(ctx, user))

	res, err := svc.Refresh(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.Role)

	identity, ok := svc.TokenManager().Verify(res.Token)
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, identity.Role)
}

func TestRefreshDeletedAccountIsInvalidToken(t *testing.T) {
	svc, accounts, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "gone@example.com", "secret1", "Gone")
	require.NoError(t, err)
	user, err := accounts.FindByEmail(ctx, "gone@example.com")
	require.NoError(t, err)
	require.NoError(t, accounts.Delete(ctx, user.ID))

	res, err := svc.Refresh(ctx, reg.Token)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	_, err := svc.Refresh(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	_, err = svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestResetPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, "reset@example.com", "secret1", "Reset")
	require.NoError(t, err)
	identity := &domain.Identity{Subject: "reset@example.com", Role: domain.RoleUser}

	t.Run("requires identity", func(t *testing.T) {
		err := svc.ResetPassword(ctx, nil, "secret1", "secret2")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("rejects short new password", func(t *testing.T) {
		err := svc.ResetPassword(ctx, identity, "secret1", "abc")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		err := svc.ResetPassword(ctx, identity, "", "secret2")
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		err := svc.ResetPassword(ctx, identity, "not-it", "secret2")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("replaces hash", func(t *testing.T) {
		require.NoError(t, svc.ResetPassword(ctx, identity, "secret1", "secret2"))

		_, err := svc.Login(ctx, "reset@example.com", "secret1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		_, err = svc.Login(ctx, "reset@example.com", "secret2")
		assert.NoError(t, err)
	})
}

func TestOverlongPasswordsAreValidationErrors(t *testing.T) {
	svc, accounts, _ := newTestAuthService(t)
	ctx := context.Background()
	long := strings.Repeat("a", 80)

	res, err := svc.Register(ctx, "long@example.com", long, "L")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = accounts.FindByEmail(ctx, "long@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Register(ctx, "ok@example.com", "secret1", "Ok")
	require.NoError(t, err)
	identity := &domain.Identity{Subject: "ok@example.com", Role: domain.RoleUser}

	err = svc.ResetPassword(ctx, identity, "secret1", long)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	err = svc.ResetPassword(ctx, identity, "secret1", strings.Repeat("€", 30))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Login(ctx, "ok@example.com", "secret1")
	assert.NoError(t, err, "old password still works")
}
