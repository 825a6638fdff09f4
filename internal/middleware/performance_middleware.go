package middleware

import (
	"log/slog"
	"time"

	"go-bookkeeping-ws/internal/observability"

	"github.com/gofiber/fiber/v2"
)

type PerformanceConfig struct {
	SlowThreshold time.Duration
	LogAll        bool
	Logger        *slog.Logger
	Metrics       *observability.Metrics
}

// Performance mencatat durasi tiap request ke Prometheus dan
// menulis log WARN untuk request yang melewati SlowThreshold.
func Performance(cfg PerformanceConfig) fiber.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "http")

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Path()
		if r := c.Route(); r != nil && r.Path != "" {
			route = r.Path
		}
		cfg.Metrics.ObserveRequest(c.Method(), route, status, elapsed)

		attrs := []any{
			"method", c.Method(),
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"actor", ActorID(c),
		}
		switch {
		case cfg.SlowThreshold > 0 && elapsed >= cfg.SlowThreshold:
			log.Warn("slow request", attrs...)
		case cfg.LogAll:
			log.Info("request", attrs...)
		}
		return err
	}
}
