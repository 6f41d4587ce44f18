package handlers

import (
	"errors"

	applog "voltbay/internal/log"
	"voltbay/internal/services"
	"voltbay/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	Review *services.ReviewService
}

func reviewStatus(err error) int {
	var se *services.StateError
	switch {
	case errors.Is(err, services.ErrSubmissionNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &se):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// PATCH /api/v1/used-products/:id/approve
func (h *ReviewHandler) Approve(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	res, err := h.Review.Approve(id)
	if err != nil {
		status := reviewStatus(err)
		if status == fiber.StatusInternalServerError {
			applog.Error(c, "review.approve.fail", err, map[string]any{"submission_id": id})
		} else {
			applog.Security(c, "review.approve.reject", map[string]any{"submission_id": id, "reason": err.Error()})
		}
		return jsonError(c, status, err.Error())
	}

	applog.Audit(c, "review.approve", map[string]any{
		"submission_id": id,
		"product_id":    res.Product.ID,
	})
	return c.JSON(fiber.Map{
		"message":     "Submission approved and published to catalog",
		"usedProduct": res.Submission.View(),
		"newProduct":  res.Product,
	})
}

// PATCH /api/v1/used-products/:id/deny
func (h *ReviewHandler) Deny(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}

	var body struct {
		Notes string `json:"notes"`
	}
	// Body is optional; ignore parse failures on an empty body.
	_ = c.BodyParser(&body)

	sub, err := h.Review.Deny(id, body.Notes)
	if err != nil {
		status := reviewStatus(err)
		if status == fiber.StatusInternalServerError {
			applog.Error(c, "review.deny.fail", err, map[string]any{"submission_id": id})
		} else {
			applog.Security(c, "review.deny.reject", map[string]any{"submission_id": id, "reason": err.Error()})
		}
		return jsonError(c, status, err.Error())
	}

	applog.Audit(c, "review.deny", map[string]any{"submission_id": id})
	return c.JSON(fiber.Map{
		"message":     "Submission denied and removed",
		"usedProduct": sub.View(),
	})
}
