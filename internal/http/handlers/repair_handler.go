package handlers

import (
	"errors"

	applog "voltbay/internal/log"
	"voltbay/internal/services"
	"voltbay/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type RepairHandler struct {
	Repairs *services.RepairService
}

// POST /api/v1/repairs
func (h *RepairHandler) Book(c *fiber.Ctx) error {
	var req struct {
		Device        string `json:"device"`
		Brand         string `json:"brand"`
		Issue         string `json:"issue"`
		PreferredDate string `json:"preferredDate"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		Phone         string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	device, ok := validate.Title(req.Device)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "device is required")
	}
	if req.Issue == "" {
		return jsonError(c, fiber.StatusBadRequest, "issue description is required")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	phone := ""
	if req.Phone != "" {
		if phone, ok = validate.Phone(req.Phone); !ok {
			return jsonError(c, fiber.StatusBadRequest, "invalid phone")
		}
	}

	rep, err := h.Repairs.Book(services.RepairInput{
		Device:        device,
		Brand:         req.Brand,
		Issue:         req.Issue,
		PreferredDate: req.PreferredDate,
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: phone,
	})
	if err != nil {
		applog.Error(c, "repair.book.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not book repair")
	}
	applog.Audit(c, "repair.book", map[string]any{"repair_id": rep.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"repair": rep})
}

// GET /api/v1/repairs?status= (admin)
func (h *RepairHandler) List(c *fiber.Ctx) error {
	reps, err := h.Repairs.List(c.Query("status"), c.QueryInt("page", 1), c.QueryInt("pageSize", 20))
	if err != nil {
		applog.Error(c, "repair.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load repairs")
	}
	return c.JSON(fiber.Map{"repairs": reps})
}

// PATCH /api/v1/repairs/:id/status (admin)
func (h *RepairHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid repair id")
	}
	var req struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return jsonError(c, fiber.StatusBadRequest, "status is required")
	}
	rep, err := h.Repairs.UpdateStatus(id, req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, services.ErrRepairNotFound) {
			return jsonError(c, fiber.StatusNotFound, "repair not found")
		}
		applog.Error(c, "repair.status.fail", err, map[string]any{"repair_id": id})
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	applog.Audit(c, "repair.status", map[string]any{"repair_id": id, "status": req.Status})
	return c.JSON(fiber.Map{"repair": rep})
}
