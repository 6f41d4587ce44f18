package handlers

import (
	"strings"

	applog "voltbay/internal/log"
	"voltbay/internal/services"
	"voltbay/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// GET /api/v1/search?q=&category=&refurbished=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	if q != "" {
		var ok bool
		if q, ok = validate.Q(q); !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid search query")
		}
	}

	category := c.Query("category")
	if category != "" {
		var ok bool
		if category, ok = validate.ID(category); !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid category")
		}
	}

	var refurbished *bool
	switch c.Query("refurbished") {
	case "":
	case "true", "1":
		v := true
		refurbished = &v
	case "false", "0":
		v := false
		refurbished = &v
	default:
		return jsonError(c, fiber.StatusBadRequest, "refurbished must be true or false")
	}

	prods, err := h.Catalog.Search(q, category, refurbished, c.QueryInt("page", 1), c.QueryInt("pageSize", 12))
	if err != nil {
		applog.Error(c, "catalog.search.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "search failed")
	}
	return c.JSON(fiber.Map{"products": prods})
}
