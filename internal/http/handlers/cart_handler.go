package handlers

import (
	applog "voltbay/internal/log"
	"voltbay/internal/services"
	"voltbay/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CartHandler struct {
	Cart *services.CartService
}

// ensureSID issues the anonymous cart cookie when the client has none.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return sid
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(ensureSID(c))
	if err != nil {
		applog.Error(c, "cart.view.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load cart")
	}
	return c.JSON(cv)
}

// POST /api/v1/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	id, ok := validate.ID(req.ProductID)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	if req.Qty < 1 {
		req.Qty = 1
	}
	if req.Qty > 50 {
		req.Qty = 50
	}
	if err := h.Cart.Add(ensureSID(c), id, req.Qty); err != nil {
		applog.Error(c, "cart.add.fail", err, map[string]any{"product_id": id})
		return jsonError(c, fiber.StatusBadRequest, "could not add item to cart")
	}
	return h.View(c)
}

// DELETE /api/v1/cart/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	if err := h.Cart.Remove(ensureSID(c), id); err != nil {
		applog.Error(c, "cart.remove.fail", err, map[string]any{"product_id": id})
		return jsonError(c, fiber.StatusInternalServerError, "could not remove item")
	}
	return h.View(c)
}
