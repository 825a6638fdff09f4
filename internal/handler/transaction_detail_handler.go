package handler

import (
	"log/slog"
	"strings"

	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

// TransactionDetailHandler melayani endpoint baca untuk baris detail transaksi.
type TransactionDetailHandler struct {
	service service.TransactionDetailService
	log     *slog.Logger
}

func NewTransactionDetailHandler(s service.TransactionDetailService, log *slog.Logger) *TransactionDetailHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TransactionDetailHandler{service: s, log: log}
}

func (h *TransactionDetailHandler) Register(r fiber.Router) {
	r.Get("/transaction-items", h.GetItems)
	r.Get("/transaction-items/:id", h.GetItem)
	r.Get("/transaction-expenses", h.GetExpenses)
	r.Get("/transaction-expenses/:id", h.GetExpense)
}

// GetItems query params: page, limit, transaction_id, item_id, type
func (h *TransactionDetailHandler) GetItems(c *fiber.Ctx) error {
	filter, msg := detailFilter(c)
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}
	var err error
	if filter.ItemID, err = optionalUUID(c.Query("item_id")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item_id"})
	}

	page, err := h.service.ListItems(c.UserContext(), filter, pageQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(page)
}

func (h *TransactionDetailHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction item ID"})
	}
	item, err := h.service.GetItem(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(item)
}

// GetExpenses query params: page, limit, transaction_id, expense_type_id, type
func (h *TransactionDetailHandler) GetExpenses(c *fiber.Ctx) error {
	filter, msg := detailFilter(c)
	if msg != "" {
		return c.Status(400).JSON(fiber.Map{"error": msg})
	}
	var err error
	if filter.ExpenseTypeID, err = optionalUUID(c.Query("expense_type_id")); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid expense_type_id"})
	}

	page, err := h.service.ListExpenses(c.UserContext(), filter, pageQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(page)
}

func (h *TransactionDetailHandler) GetExpense(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction expense ID"})
	}
	expense, err := h.service.GetExpense(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(expense)
}

// detailFilter parses transaction_id and type; msg is non-empty on bad input.
func detailFilter(c *fiber.Ctx) (model.DetailFilter, string) {
	filter := model.DetailFilter{Type: model.TransactionType(strings.ToLower(c.Query("type")))}
	if filter.Type != "" && filter.Type != model.TransactionBuy && filter.Type != model.TransactionSell {
		return filter, "Invalid type, use buy or sell"
	}
	id, err := optionalUUID(c.Query("transaction_id"))
	if err != nil {
		return filter, "Invalid transaction_id"
	}
	filter.TransactionID = id
	return filter, ""
}
