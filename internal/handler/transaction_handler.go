package handler

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go-bookkeeping-ws/internal/middleware"
	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	service service.TransactionService
	log     *slog.Logger
}

func NewTransactionHandler(s service.TransactionService, log *slog.Logger) *TransactionHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TransactionHandler{service: s, log: log}
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req model.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	resp, err := h.service.Create(c.UserContext(), &req, middleware.ActorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transaction created", "data": resp})
}

func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	var req model.UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	resp, err := h.service.Update(c.UserContext(), id, &req, middleware.ActorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction updated", "data": resp})
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	resp, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(resp)
}

// GetTransactions query params: page, limit, type, supplier_id, customer_id, start_date, end_date, is_report
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	filter := model.TransactionFilter{Type: model.TransactionType(strings.ToLower(c.Query("type")))}
	if filter.Type != "" && filter.Type != model.TransactionBuy && filter.Type != model.TransactionSell {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid type, use buy or sell"})
	}

	var err error
	if filter.SupplierID, err = optionalUUID(c.Query("supplier_id")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid supplier_id"})
	}
	if filter.CustomerID, err = optionalUUID(c.Query("customer_id")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid customer_id"})
	}
	if filter.StartDate, err = optionalDate(c.Query("start_date")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid start_date, use YYYY-MM-DD"})
	}
	if filter.EndDate, err = optionalDate(c.Query("end_date")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid end_date, use YYYY-MM-DD"})
	}
	isReport, _ := strconv.ParseBool(c.Query("is_report", "false"))

	result, err := h.service.List(c.UserContext(), filter, pageQuery(c), isReport)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(result)
}

func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	if err := h.service.Delete(c.UserContext(), id, middleware.ActorID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Transaction deleted"})
}

func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
