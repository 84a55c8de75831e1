package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthReady(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	cases := []struct {
		name   string
		deps   map[string]Pinger
		status int
	}{
		{"all up", map[string]Pinger{"postgres": ok, "redis": ok}, fiber.StatusOK},
		{"redis down", map[string]Pinger{"postgres": ok, "redis": down}, fiber.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			h := NewHealthHandlerWith("library-service", "test", tc.deps)
			app.Get("/health/ready", h.Ready)
			app.Get("/health/live", h.Live)

			resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)

			resp, err = app.Test(httptest.NewRequest("GET", "/health/live", nil))
			require.NoError(t, err)
			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			require.Equal(t, "alive", body["status"])
		})
	}
}
