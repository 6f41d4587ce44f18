package handlers

import (
	"database/sql"
	"errors"

	"voltbay/internal/domain"
	applog "voltbay/internal/log"
	"voltbay/internal/services"
	"voltbay/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SubmissionHandler struct {
	Intake *services.IntakeService
}

type submissionRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Condition    string   `json:"condition"`
	Images       []string `json:"images"`
	AskingPrice  *float64 `json:"askingPrice"`
	RequestQuote bool     `json:"requestQuote"`
	Brand        string   `json:"brand"`
	SellerName   string   `json:"sellerName"`
	SellerEmail  string   `json:"sellerEmail"`
	SellerPhone  string   `json:"sellerPhone"`
}

// POST /api/v1/used-products
func (h *SubmissionHandler) Create(c *fiber.Ctx) error {
	var req submissionRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed request body")
	}

	title, ok := validate.Title(req.Title)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "title is required (max 120 characters)")
	}
	if _, ok := validate.ID(req.Category); !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid category")
	}
	if !domain.ValidCondition(req.Condition) {
		return jsonError(c, fiber.StatusBadRequest, "condition must be one of New, Excellent, Good, Fair")
	}
	name, ok := validate.Name(req.SellerName)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "seller name is required")
	}
	email, ok := validate.Email(req.SellerEmail)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid seller email")
	}
	phone, ok := validate.Phone(req.SellerPhone)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid seller phone")
	}

	// Asking price and quote request are mutually exclusive.
	var pricing domain.Pricing
	switch {
	case req.AskingPrice != nil && !req.RequestQuote:
		if *req.AskingPrice < 0 || *req.AskingPrice > 1_000_000 {
			return jsonError(c, fiber.StatusBadRequest, "asking price out of range")
		}
		pricing = domain.Priced(*req.AskingPrice)
	case req.AskingPrice == nil && req.RequestQuote:
		pricing = domain.QuoteRequested()
	default:
		return jsonError(c, fiber.StatusBadRequest, "provide either an asking price or request a quote, not both")
	}

	sub, err := h.Intake.Submit(services.SubmissionInput{
		Title:       title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   domain.Condition(req.Condition),
		Images:      req.Images,
		Pricing:     pricing,
		Brand:       req.Brand,
		Seller:      domain.SellerContact{Name: name, Email: email, Phone: phone},
	})
	if err != nil {
		if errors.Is(err, services.ErrUnknownCategory) {
			return jsonError(c, fiber.StatusBadRequest, "unknown category")
		}
		applog.Error(c, "intake.submit.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not save submission")
	}

	applog.Audit(c, "intake.submit", map[string]any{"submission_id": sub.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Submission received and pending review",
		"usedProduct": sub.View(),
	})
}

// GET /api/v1/used-products?status=&page= (admin)
func (h *SubmissionHandler) List(c *fiber.Ctx) error {
	status := c.Query("status")
	switch status {
	case "", "pending", "approved", "rejected":
	default:
		return jsonError(c, fiber.StatusBadRequest, "invalid status filter")
	}
	subs, err := h.Intake.List(status, c.QueryInt("page", 1), c.QueryInt("pageSize", 20))
	if err != nil {
		applog.Error(c, "intake.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load submissions")
	}
	views := make([]domain.SubmissionView, len(subs))
	for i, s := range subs {
		views[i] = s.View()
	}
	return c.JSON(fiber.Map{"usedProducts": views})
}

// GET /api/v1/used-products/:id (admin)
func (h *SubmissionHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid submission id")
	}
	sub, err := h.Intake.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "submission not found")
		}
		applog.Error(c, "intake.get.fail", err, map[string]any{"submission_id": id})
		return jsonError(c, fiber.StatusInternalServerError, "could not load submission")
	}
	return c.JSON(fiber.Map{"usedProduct": sub.View()})
}
