package handler

import (
	"log/slog"
	"strconv"

	"go-bookkeeping-ws/internal/middleware"
	"go-bookkeeping-ws/internal/service"
	"go-bookkeeping-ws/internal/ws"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
	wsHub   *ws.Hub
	log     *slog.Logger
}

func NewDashboardHandler(s service.DashboardService, hub *ws.Hub, log *slog.Logger) *DashboardHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DashboardHandler{service: s, wsHub: hub, log: log}
}

// GetDashboardData returns daily and monthly metrics with comparisons
func (h *DashboardHandler) GetDashboardData(c *fiber.Ctx) error {
	data, err := h.service.GetDashboardData(c.UserContext())
	if err != nil {
		h.log.Error("dashboard failed", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard data"})
	}
	return c.JSON(data)
}

func (h *DashboardHandler) ClearCache(c *fiber.Ctx) error {
	if err := h.service.ClearCache(c.UserContext()); err != nil {
		h.log.Error("dashboard cache clear failed", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to clear dashboard cache"})
	}
	h.wsHub.Publish(ws.EventDashboardCleared, middleware.ActorID(c), nil)
	return c.JSON(fiber.Map{"message": "Dashboard cache cleared"})
}

// GetTrend returns daily series for charts
// Query params: days (default 30, max 365)
func (h *DashboardHandler) GetTrend(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.Query("days", strconv.Itoa(service.DefaultTrendDays)))
	if err != nil || days <= 0 {
		days = service.DefaultTrendDays
	}
	if days > service.MaxTrendDays {
		days = service.MaxTrendDays
	}

	data, err := h.service.GetTrend(c.UserContext(), days)
	if err != nil {
		h.log.Error("dashboard trend failed", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch trend"})
	}
	return c.JSON(fiber.Map{
		"period": days,
		"data":   data,
	})
}

// GetStats returns overview counters
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(c.UserContext())
	if err != nil {
		h.log.Error("dashboard stats failed", "error", err)
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// DebugPurchase query params: date (YYYY-MM-DD, default today)
func (h *DashboardHandler) DebugPurchase(c *fiber.Ctx) error {
	rows, err := h.service.DebugPurchaseCalculation(c.UserContext(), c.Query("date"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"date": c.Query("date"), "data": rows})
}

func (h *DashboardHandler) DebugMonthlyDates(c *fiber.Ctx) error {
	data, err := h.service.DebugMonthlyDates(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(data)
}
