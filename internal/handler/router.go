package handler

import (
	"go-bookkeeping-ws/internal/middleware"
	"go-bookkeeping-ws/internal/observability"
	"go-bookkeeping-ws/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Routes struct {
	Transactions *TransactionHandler
	Details      *TransactionDetailHandler
	Dashboard    *DashboardHandler
	Catalog      *CatalogHandler
	Hub          *ws.Hub
	Metrics      *observability.Metrics
}

// SetupRoutes mounts /api/v1, /metrics and /ws on app.
func SetupRoutes(app *fiber.App, r Routes) {
	app.Get("/metrics", adaptor.HTTPHandler(r.Metrics.Handler()))

	api := app.Group("/api/v1", middleware.ActorInjector())
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Transaction Routes
	if r.Transactions != nil {
		api.Get("/transactions", r.Transactions.GetTransactions)
		api.Get("/transactions/:id", r.Transactions.GetTransaction)
		api.Post("/transactions", r.Transactions.CreateTransaction)
		api.Put("/transactions/:id", r.Transactions.UpdateTransaction)
		api.Delete("/transactions/:id", r.Transactions.DeleteTransaction)
	}

	// Detail transaksi hanya baca
	if r.Details != nil {
		r.Details.Register(api)
	}

	// Dashboard Routes
	if r.Dashboard != nil {
		api.Get("/dashboard", r.Dashboard.GetDashboardData)
		api.Delete("/dashboard/cache", r.Dashboard.ClearCache)
		api.Get("/dashboard/trend", r.Dashboard.GetTrend)
		api.Get("/dashboard/stats", r.Dashboard.GetStats)
		api.Get("/dashboard/debug/purchase", r.Dashboard.DebugPurchase)
		api.Get("/dashboard/debug/monthly-dates", r.Dashboard.DebugMonthlyDates)
	}

	// Master data
	if r.Catalog != nil {
		r.Catalog.Register(api)
	}

	// WebSocket Route
	if r.Hub != nil {
		hub := r.Hub
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(func(c *websocket.Conn) {
			hub.Register <- c
			defer func() { hub.Unregister <- c }()

			for {
				// Keep alive loop
				if _, _, err := c.ReadMessage(); err != nil {
					break
				}
			}
		}))
	}
}
