package auth

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/library-service/internal/domain"
	"github.com/spec-kit/library-service/internal/repository"
)

type stubFinder struct {
	users map[string]*domain.User
	err   error
}

func (s *stubFinder) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

// whoami echoes the resolved identity as "subject|role", or "anonymous".
func newWhoamiApp(m *AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Use(m.Handle)
	handler := func(c *fiber.Ctx) error {
		identity, ok := IdentityFromCtx(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(identity.Subject + "|" + string(identity.Role))
	}
	app.Get("/whoami", handler)
	app.Get("/docs/index.html", handler)
	return app
}

func whoami(t *testing.T, app *fiber.App, path, header string) string {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, "filter never rejects")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestAuthMiddleware(t *testing.T) {
	clock := newClock()
	clock.now = time.Now().Truncate(time.Second)
	tm := newManager(t, time.Hour, clock)

	finder := &stubFinder{users: map[string]*domain.User{
		"reader@example.com": {ID: 1, Email: "reader@example.com", Role: domain.RoleUser},
		"boss@example.com":   {ID: 2, Email: "boss@example.com", Role: domain.RoleAdmin},
	}}
	app := newWhoamiApp(NewAuthMiddleware(tm, finder, nil))

	readerToken, _, err := tm.Issue("reader@example.com", domain.RoleUser)
	require.NoError(t, err)
	ghostToken, _, err := tm.Issue("ghost@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	// The claim says USER but the store says ADMIN.
	promotedToken, _, err := tm.Issue("boss@example.com", domain.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		want   string
	}{
		{"no header", "/whoami", "", "anonymous"},
		{"valid bearer", "/whoami", "Bearer " + readerToken, "reader@example.com|USER"},
		{"lowercase scheme ignored", "/whoami", "bearer " + readerToken, "anonymous"},
		{"basic scheme ignored", "/whoami", "Basic dXNlcjpwYXNz", "anonymous"},
		{"empty bearer", "/whoami", "Bearer ", "anonymous"},
		{"garbage token", "/whoami", "Bearer not.a.token", "anonymous"},
		{"deleted account", "/whoami", "Bearer " + ghostToken, "anonymous"},
		{"role from store", "/whoami", "Bearer " + promotedToken, "boss@example.com|ADMIN"},
		{"docs bypass", "/docs/index.html", "Bearer " + readerToken, "anonymous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, whoami(t, app, tt.path, tt.header))
		})
	}
}

func TestAuthMiddlewareStoreFailureDegradesToAnonymous(t *testing.T) {
	clock := newClock()
	clock.now = time.Now().Truncate(time.Second)
	tm := newManager(t, time.Hour, clock)

	core, logs := observer.New(zap.WarnLevel)
	finder := &stubFinder{err: errors.New("connection reset")}
	app := newWhoamiApp(NewAuthMiddleware(tm, finder, zap.New(core)))

	token, _, err := tm.Issue("reader@example.com", domain.RoleUser)
	require.NoError(t, err)

	assert.Equal(t, "anonymous", whoami(t, app, "/whoami", "Bearer "+token))
	assert.Equal(t, 1, logs.FilterMessage("identity lookup failed").Len())
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", tok)

	for _, h := range []string{"", "Bearer", "Bearer   ", "BEARER abc", "Token abc"} {
		_, ok := BearerToken(h)
		assert.False(t, ok, h)
	}
}
