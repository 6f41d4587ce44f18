package handlers

import (
	applog "voltbay/internal/log"
	"voltbay/internal/services"
	"voltbay/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/categories
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		applog.Error(c, "catalog.categories.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load categories")
	}
	return c.JSON(fiber.Map{"categories": cats})
}

// GET /api/v1/categories/:id/products
func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category id")
	}
	prods, err := h.Catalog.ListProductsByCategory(id, c.QueryInt("page", 1), c.QueryInt("pageSize", 12))
	if err != nil {
		applog.Error(c, "catalog.category.products.fail", err, map[string]any{"category": id})
		return jsonError(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(fiber.Map{"products": prods})
}
