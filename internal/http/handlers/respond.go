package handlers

import "github.com/gofiber/fiber/v2"

// jsonError is the single failure shape the API returns: one human-readable
// message, status carried by HTTP.
func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
