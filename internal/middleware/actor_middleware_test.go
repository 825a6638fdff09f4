package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-bookkeeping-ws/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actorApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.ActorInjector())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(middleware.ActorID(c))
	})
	return app
}

func TestActorInjector(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"header present", "user_2NNEqL", "user_2NNEqL"},
		{"header trimmed", "  user_1 ", "user_1"},
		{"missing header", "", "system"},
		{"blank header", "   ", "system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set(middleware.ActorHeader, tt.header)
			}
			resp, err := actorApp().Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestActorID_WithoutInjector(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(middleware.ActorID(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "system", string(body))
}
