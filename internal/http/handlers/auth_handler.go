package handlers

import (
	"errors"

	applog "voltbay/internal/log"
	"voltbay/internal/services"
	"voltbay/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid email")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "name is required")
	}
	if !validate.Password(req.Password) {
		return jsonError(c, fiber.StatusBadRequest, "password must be 8-64 characters with upper, lower, digit and symbol")
	}

	u, token, err := h.Auth.Register(email, name, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return jsonError(c, fiber.StatusConflict, "email already registered")
		}
		applog.Error(c, "auth.register.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not register")
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  fiber.Map{"id": u.ID, "email": u.Email, "name": u.Name, "role": u.Role},
	})
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "malformed request body")
	}
	if _, ok := validate.Email(req.Email); !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	u, token, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return jsonError(c, fiber.StatusUnauthorized, "invalid email or password")
	}

	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{
		"token": token,
		"user":  fiber.Map{"id": u.ID, "email": u.Email, "name": u.Name, "role": u.Role},
	})
}
