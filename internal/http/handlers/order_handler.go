package handlers

import (
	"strings"

	applog "voltbay/internal/log"
	"voltbay/internal/repos"
	"voltbay/internal/services"
	"voltbay/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Cart  *services.CartService
	Order *services.OrderService
	Repo  *repos.OrderRepo
}

// POST /api/v1/orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var req struct {
		Region      string `json:"region"`
		Fulfillment string `json:"fulfillment"`
		Name        string `json:"name"`
		Email       string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed request body")
	}

	region, ok := validate.Region(req.Region)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "region"})
		return jsonError(c, fiber.StatusBadRequest, "invalid region/ZIP")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "email"})
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "name"})
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}

	fulfillment := strings.ToLower(strings.TrimSpace(req.Fulfillment))
	if fulfillment != "delivery" && fulfillment != "pickup" {
		fulfillment = "delivery"
	}

	var userID string
	if claims := currentClaims(c); claims != nil {
		userID = claims.UserID
	}

	orderID, total, err := h.Order.Place(sid, userID, region, fulfillment, services.Contact{Name: name, Email: email})
	if err != nil {
		// business rule errors (e.g., insufficient stock) surface as 400
		applog.Security(c, "order.place.fail", map[string]any{"sid": sid, "error": err.Error()})
		return jsonError(c, fiber.StatusBadRequest, "could not place order, please review quantities and try again")
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": orderID, "total": total})

	o, items, err := h.Repo.Get(orderID)
	if err != nil {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"orderId": orderID, "total": total})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": o, "items": items})
}

// GET /api/v1/orders/:id
func (h *OrderHandler) View(c *fiber.Ctx) error {
	oid, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}

	o, items, err := h.Repo.Get(oid)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}

	// Ownership: cart session owner, the ordering user, or an admin.
	sid := c.Cookies("sid")
	claims := currentClaims(c)
	owner := sid != "" && sid == o.SessionID
	if claims != nil && (claims.UserID == o.UserID || claims.Role == "ADMIN") {
		owner = true
	}
	if !owner {
		applog.Security(c, "access.denied.order", map[string]any{"order_id": oid})
		return jsonError(c, fiber.StatusNotFound, "order not found")
	}

	return c.JSON(fiber.Map{"order": o, "items": items})
}

// GET /api/v1/orders — history for the current user.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	claims := currentClaims(c)
	if claims == nil {
		return jsonError(c, fiber.StatusUnauthorized, "authentication required")
	}
	orders, err := h.Repo.ListByUser(claims.UserID)
	if err != nil {
		applog.Error(c, "orders.history.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load orders")
	}
	// Fallback: show session orders if none linked to user (pre-login checkouts)
	if len(orders) == 0 {
		if sid := c.Cookies("sid"); sid != "" {
			if sessOrders, err := h.Repo.ListBySession(sid); err == nil && len(sessOrders) > 0 {
				orders = sessOrders
			}
		}
	}
	return c.JSON(fiber.Map{"orders": orders})
}
