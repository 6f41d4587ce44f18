package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"voltbay/internal/auth"
	"voltbay/internal/config"
	"voltbay/internal/http/handlers"
	applog "voltbay/internal/log"
	"voltbay/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, 24*time.Hour)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and keep internals out of the response
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/media/")
		},
	}))
	app.Use(handlers.AttachUser(tokens))

	// ---------- Media ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /media -> %s", mediaDir)

	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		full := filepath.Join(mediaDir, clean)
		return c.SendFile(full, true)
	})

	// ---------- API ----------
	deps := handlers.NewDeps(db, cfg, tokens)
	api := app.Group("/api/v1")

	// Auth (login throttled)
	api.Post("/auth/register", deps.AuthHandler.Register)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, please try again later"})
		},
	}), deps.AuthHandler.Login)

	// Catalog (public)
	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/categories/:id/products", deps.CategoryHandler.Products)
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Get("/search", limiter.New(limiter.Config{Max: 20, Expiration: time.Minute}), deps.SearchHandler.Search)
	api.Get("/availability", limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}), deps.ProductHandler.Availability)

	// Cart & orders
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart", deps.CartHandler.Add)
	api.Delete("/cart/:productId", deps.CartHandler.Remove)
	api.Post("/orders", deps.OrderHandler.Place)
	api.Get("/orders", handlers.RequireUser(tokens), deps.OrderHandler.History)
	api.Get("/orders/:id", deps.OrderHandler.View)

	// Used-item intake & review
	api.Post("/used-products", deps.SubmissionHandler.Create)
	api.Get("/used-products", handlers.RequireAdmin(tokens), deps.SubmissionHandler.List)
	api.Get("/used-products/:id", handlers.RequireAdmin(tokens), deps.SubmissionHandler.Detail)
	api.Patch("/used-products/:id/approve", handlers.RequireAdmin(tokens), deps.ReviewHandler.Approve)
	api.Patch("/used-products/:id/deny", handlers.RequireAdmin(tokens), deps.ReviewHandler.Deny)

	// Repairs
	api.Post("/repairs", deps.RepairHandler.Book)
	api.Get("/repairs", handlers.RequireAdmin(tokens), deps.RepairHandler.List)
	api.Patch("/repairs/:id/status", handlers.RequireAdmin(tokens), deps.RepairHandler.UpdateStatus)

	// Admin catalog & back-office
	admin := api.Group("/admin", handlers.RequireAdmin(tokens))
	admin.Get("/dashboard", deps.AdminHandler.Dashboard)
	admin.Get("/orders", deps.AdminHandler.OrdersList)
	admin.Patch("/orders/:id/status", deps.AdminHandler.UpdateOrderStatus)
	admin.Post("/products/:id/stock", deps.AdminHandler.Restock)
	admin.Get("/users", deps.AdminHandler.UsersList)
	admin.Delete("/users/:id", deps.AdminHandler.DeleteUser)
	api.Post("/products", handlers.RequireAdmin(tokens), deps.ProductHandler.Create)
	api.Put("/products/:id", handlers.RequireAdmin(tokens), deps.ProductHandler.Update)
	api.Delete("/products/:id", handlers.RequireAdmin(tokens), deps.ProductHandler.Delete)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
