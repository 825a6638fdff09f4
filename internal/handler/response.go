package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"go-bookkeeping-ws/internal/model"
	"go-bookkeeping-ws/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Helper untuk parse UUID dari string
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func optionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func pageQuery(c *fiber.Ctx) model.PageQuery {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(model.DefaultPageLimit)))
	return model.PageQuery{Page: page, Limit: limit, Search: c.Query("search")}.Normalize()
}

// respondError memetakan error service ke status HTTP.
func respondError(c *fiber.Ctx, log *slog.Logger, err error) error {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		createErr     *service.TransactionCreateFailedError
		updateErr     *service.TransactionUpdateFailedError
	)
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr.Message})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFoundErr.Message})
	case errors.Is(err, service.ErrContactExists), errors.Is(err, service.ErrBrandExists), errors.Is(err, service.ErrInUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &createErr), errors.As(err, &updateErr):
		log.Error("transaction write failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	default:
		log.Error("request failed", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}
