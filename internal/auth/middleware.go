package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/repository"
)

const (
	identityKey  = "auth_identity"
	bearerPrefix = "Bearer "
)

// DefaultBypassPrefixes are documentation paths the filter never inspects.
var DefaultBypassPrefixes = []string{"/v3/api-docs", "/swagger", "/docs"}

// AccountFinder is the slice of the account store the filter needs.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AuthMiddleware resolves the request identity from a bearer token.
// It never rejects a request; access decisions belong to Policy.
type AuthMiddleware struct {
	tokens   *TokenManager
	accounts AccountFinder
	logger   *zap.Logger
	bypass   []string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, accounts AccountFinder, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		tokens:   tokens,
		accounts: accounts,
		logger:   logger,
		bypass:   DefaultBypassPrefixes,
	}
}

// Handle annotates the request with an identity when a valid token is present.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if m.bypassed(c.Path()) {
		return c.Next()
	}

	raw, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Next()
	}

	if identity := m.resolve(c.UserContext(), raw); identity != nil {
		c.Locals(identityKey, identity)
	}
	return c.Next()
}

func (m *AuthMiddleware) resolve(ctx context.Context, raw string) *domain.Identity {
	claimed, ok := m.tokens.Verify(raw)
	if !ok {
		return nil
	}

	account, err := m.accounts.FindByEmail(ctx, claimed.Subject)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			m.logger.Warn("identity lookup failed", zap.String("subject", claimed.Subject), zap.Error(err))
		}
		return nil
	}

	// The persisted role wins over the claim so role changes apply on the next request.
	return &domain.Identity{Subject: account.Email, Role: account.Role}
}

func (m *AuthMiddleware) bypassed(path string) bool {
	for _, prefix := range m.bypass {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// BearerToken extracts the token from an Authorization header value.
// Only the exact "Bearer " prefix is accepted.
func BearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	if raw == "" {
		return "", false
	}
	return raw, true
}

// IdentityFromCtx retrieves the request identity. nil, false means anonymous.
func IdentityFromCtx(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok && identity != nil
}
