package handler

import (
	"log/slog"

	"go-bookkeeping-ws/internal/middleware"
	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *slog.Logger
}

func NewCatalogHandler(s service.CatalogService, log *slog.Logger) *CatalogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogHandler{service: s, log: log}
}

// Register mounts CRUD routes for contacts, brands, items and expense types.
func (h *CatalogHandler) Register(r fiber.Router) {
	r.Get("/contacts", h.GetContacts)
	r.Get("/contacts/:id", h.GetContact)
	r.Post("/contacts", h.CreateContact)
	r.Put("/contacts/:id", h.UpdateContact)
	r.Delete("/contacts/:id", h.DeleteContact)

	r.Get("/brands", h.GetBrands)
	r.Get("/brands/:id", h.GetBrand)
	r.Post("/brands", h.CreateBrand)
	r.Put("/brands/:id", h.UpdateBrand)
	r.Delete("/brands/:id", h.DeleteBrand)

	r.Get("/items", h.GetItems)
	r.Get("/items/:id", h.GetItem)
	r.Post("/items", h.CreateItem)
	r.Put("/items/:id", h.UpdateItem)
	r.Delete("/items/:id", h.DeleteItem)

	r.Get("/expense-types", h.GetExpenseTypes)
	r.Get("/expense-types/:id", h.GetExpenseType)
	r.Post("/expense-types", h.CreateExpenseType)
	r.Put("/expense-types/:id", h.UpdateExpenseType)
	r.Delete("/expense-types/:id", h.DeleteExpenseType)
}

// ===== Contacts =====

func (h *CatalogHandler) GetContacts(c *fiber.Ctx) error {
	page, err := h.service.ListContacts(c.UserContext(), pageQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(page)
}

func (h *CatalogHandler) GetContact(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid contact ID"})
	}
	contact, err := h.service.GetContact(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(contact)
}

func (h *CatalogHandler) CreateContact(c *fiber.Ctx) error {
	var req model.Contact
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateContact(c.UserContext(), &req, middleware.ActorID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Contact created", "data": req})
}

func (h *CatalogHandler) UpdateContact(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid contact ID"})
	}
	var req model.Contact
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	updated, err := h.service.UpdateContact(c.UserContext(), id, &req, middleware.ActorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Contact updated", "data": updated})
}

func (h *CatalogHandler) DeleteContact(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid contact ID"})
	}
	if err := h.service.DeleteContact(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Contact deleted"})
}

// ===== Brands =====

func (h *CatalogHandler) GetBrands(c *fiber.Ctx) error {
	page, err := h.service.ListBrands(c.UserContext(), pageQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(page)
}

func (h *CatalogHandler) GetBrand(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid brand ID"})
	}
	brand, err := h.service.GetBrand(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(brand)
}

func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	var req model.Brand
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateBrand(c.UserContext(), &req, middleware.ActorID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Brand created", "data": req})
}

func (h *CatalogHandler) UpdateBrand(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid brand ID"})
	}
	var req model.Brand
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	updated, err := h.service.UpdateBrand(c.UserContext(), id, &req, middleware.ActorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Brand updated", "data": updated})
}

func (h *CatalogHandler) DeleteBrand(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid brand ID"})
	}
	if err := h.service.DeleteBrand(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Brand deleted"})
}

// ===== Items =====

// GetItems query params: page, limit, search, brand_id
func (h *CatalogHandler) GetItems(c *fiber.Ctx) error {
	brandID, err := optionalUUID(c.Query("brand_id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid brand_id"})
	}
	page, err := h.service.ListItems(c.UserContext(), pageQuery(c), brandID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(page)
}

func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}
	item, err := h.service.GetItem(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(item)
}

func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var req model.Item
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateItem(c.UserContext(), &req, middleware.ActorID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": req})
}

func (h *CatalogHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}
	var req model.Item
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	updated, err := h.service.UpdateItem(c.UserContext(), id, &req, middleware.ActorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": updated})
}

func (h *CatalogHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}
	if err := h.service.DeleteItem(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

// ===== Expense types =====

func (h *CatalogHandler) GetExpenseTypes(c *fiber.Ctx) error {
	page, err := h.service.ListExpenseTypes(c.UserContext(), pageQuery(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(page)
}

func (h *CatalogHandler) GetExpenseType(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid expense type ID"})
	}
	et, err := h.service.GetExpenseType(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(et)
}

func (h *CatalogHandler) CreateExpenseType(c *fiber.Ctx) error {
	var req model.ExpenseType
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.CreateExpenseType(c.UserContext(), &req, middleware.ActorID(c)); err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Expense type created", "data": req})
}

func (h *CatalogHandler) UpdateExpenseType(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid expense type ID"})
	}
	var req model.ExpenseType
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	updated, err := h.service.UpdateExpenseType(c.UserContext(), id, &req, middleware.ActorID(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Expense type updated", "data": updated})
}

func (h *CatalogHandler) DeleteExpenseType(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid expense type ID"})
	}
	if err := h.service.DeleteExpenseType(c.UserContext(), id); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Expense type deleted"})
}
