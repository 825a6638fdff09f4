package middleware

import (
	"strings"

	"go-bookkeeping-ws/internal/model"

	"github.com/gofiber/fiber/v2"
)

const (
	ActorHeader = "X-Clerk-ID"
	LocalsActor = "actor_id"
)

// ActorInjector membaca identitas dari header yang diisi identity provider
// di depan API dan menyimpannya di context untuk audit (created_by/updated_by).
func ActorInjector() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := strings.TrimSpace(c.Get(ActorHeader))
		if actor == "" {
			actor = model.DefaultActor
		}
		c.Locals(LocalsActor, actor)
		return c.Next()
	}
}

// ActorID returns the actor stored by ActorInjector, or "system".
func ActorID(c *fiber.Ctx) string {
	if actor, ok := c.Locals(LocalsActor).(string); ok && actor != "" {
		return actor
	}
	return model.DefaultActor
}
