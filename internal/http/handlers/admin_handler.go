package handlers

import (
	applog "voltbay/internal/log"
	"voltbay/internal/repos"
	"voltbay/internal/services"
	"voltbay/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Orders    *services.OrderService
	OrderRepo *repos.OrderRepo
	Subs      *repos.SubmissionRepo
	Users     *repos.UserRepo
	Prods     *repos.ProductRepo
}

// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	counts, err := h.Subs.CountByStatus()
	if err != nil {
		applog.Error(c, "admin.dashboard.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load dashboard")
	}
	ords, _ := h.OrderRepo.ListLatest(10)
	return c.JSON(fiber.Map{
		"submissionCounts": counts,
		"recentOrders":     ords,
	})
}

// GET /api/v1/admin/orders
func (h *AdminHandler) OrdersList(c *fiber.Ctx) error {
	ords, err := h.OrderRepo.ListLatest(c.QueryInt("limit", 100))
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load orders")
	}
	return c.JSON(fiber.Map{"orders": ords})
}

// PATCH /api/v1/admin/orders/:id/status
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid order id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return jsonError(c, fiber.StatusBadRequest, "status is required")
	}
	if err := h.Orders.UpdateStatus(id, req.Status); err != nil {
		applog.Error(c, "admin.orders.update.fail", err, map[string]any{"order_id": id})
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": req.Status})
	o, items, err := h.OrderRepo.Get(id)
	if err != nil {
		return c.JSON(fiber.Map{"message": "Order updated"})
	}
	return c.JSON(fiber.Map{"order": o, "items": items})
}

// POST /api/v1/admin/products/:id/stock
func (h *AdminHandler) Restock(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	var req struct {
		Qty int `json:"qty"`
	}
	if err := c.BodyParser(&req); err != nil || req.Qty < 0 {
		return jsonError(c, fiber.StatusBadRequest, "qty must be non-negative")
	}
	if _, err := h.Prods.Get(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	if err := h.Prods.SetStock(id, req.Qty); err != nil {
		applog.Error(c, "admin.stock.save.fail", err, map[string]any{"product": id, "qty": req.Qty})
		return jsonError(c, fiber.StatusInternalServerError, "could not save stock")
	}
	applog.Audit(c, "admin.stock.save", map[string]any{"product": id, "qty": req.Qty})
	return c.JSON(fiber.Map{"message": "Stock updated"})
}

// GET /api/v1/admin/users
func (h *AdminHandler) UsersList(c *fiber.Ctx) error {
	users, err := h.Users.ListNonAdmin()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load users")
	}
	return c.JSON(fiber.Map{"users": users})
}

// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}
	if err := h.Users.DeleteUserCascade(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return jsonError(c, fiber.StatusBadRequest, "could not delete user")
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.JSON(fiber.Map{"message": "User deleted"})
}
