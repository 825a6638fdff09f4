package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-bookkeeping-ws/internal/middleware"
	"go-bookkeeping-ws/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformance_LogsSlowRequests(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	metrics := observability.NewMetrics()

	app := fiber.New()
	app.Use(middleware.ActorInjector())
	app.Use(middleware.Performance(middleware.PerformanceConfig{
		SlowThreshold: 20 * time.Millisecond,
		Logger:        log,
		Metrics:       metrics,
	}))
	app.Get("/slow/:id", func(c *fiber.Ctx) error {
		time.Sleep(30 * time.Millisecond)
		return c.SendStatus(fiber.StatusAccepted)
	})
	app.Get("/fast", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/slow/42", nil)
	req.Header.Set(middleware.ActorHeader, "clerk_3")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/fast", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	out := buf.String()
	assert.Contains(t, out, "slow request")
	assert.Contains(t, out, "route=/slow/:id")
	assert.Contains(t, out, "actor=clerk_3")
	assert.Equal(t, 1, strings.Count(out, "msg="), "fast request stays quiet")

	families, err := metrics.Gatherer().Gather()
	require.NoError(t, err)
	var routes []string
	for _, mf := range families {
		if mf.GetName() != "bookkeeping_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "route" {
					routes = append(routes, lp.GetValue())
				}
			}
		}
	}
	assert.ElementsMatch(t, []string{"/slow/:id", "/fast"}, routes)
}

func TestPerformance_LogAll(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(middleware.Performance(middleware.PerformanceConfig{
		LogAll: true,
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	}))
	app.Get("/", func(c *fiber.Ctx) error { return fiber.ErrTeapot })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "actor=system")
}
