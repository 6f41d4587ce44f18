package handlers

import (
	"database/sql"
	"errors"

	"voltbay/internal/domain"
	applog "voltbay/internal/log"
	"voltbay/internal/media"
	"voltbay/internal/repos"
	"voltbay/internal/services"
	"voltbay/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ProductHandler struct {
	Catalog *services.CatalogService
	Prods   *repos.ProductRepo
	Cats    *repos.CategoryRepo
	Media   *media.Store
}

// GET /api/v1/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	return c.JSON(fiber.Map{"product": p})
}

// GET /api/v1/products?featured=1
func (h *ProductHandler) List(c *fiber.Ctx) error {
	if c.QueryBool("featured") {
		prods, err := h.Catalog.Featured(c.QueryInt("limit", 8))
		if err != nil {
			applog.Error(c, "catalog.featured.fail", err, nil)
			return jsonError(c, fiber.StatusInternalServerError, "could not load products")
		}
		return c.JSON(fiber.Map{"products": prods})
	}
	prods, err := h.Catalog.Search("", "", nil, c.QueryInt("page", 1), c.QueryInt("pageSize", 12))
	if err != nil {
		applog.Error(c, "catalog.list.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not load products")
	}
	return c.JSON(fiber.Map{"products": prods})
}

// GET /api/v1/availability?productId=
func (h *ProductHandler) Availability(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Query("productId"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "missing productId")
	}
	avail, err := h.Catalog.Availability(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "could not check availability")
	}
	return c.JSON(avail)
}

type productRequest struct {
	CategoryID  string   `json:"categoryId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Stock       int      `json:"stock"`
	Featured    bool     `json:"featured"`
	Brand       string   `json:"brand"`
	Active      *bool    `json:"active"`
}

func (h *ProductHandler) parseProduct(c *fiber.Ctx, req *productRequest) error {
	if err := c.BodyParser(req); err != nil {
		return errors.New("malformed request body")
	}
	if _, ok := validate.Title(req.Title); !ok {
		return errors.New("title is required (max 120 characters)")
	}
	if _, ok := validate.ID(req.CategoryID); !ok {
		return errors.New("invalid category")
	}
	if req.Price < 0 || req.Stock < 0 {
		return errors.New("price and stock must be non-negative")
	}
	ok, err := h.Cats.Exists(req.CategoryID)
	if err != nil {
		return errors.New("could not verify category")
	}
	if !ok {
		return errors.New("unknown category")
	}
	return nil
}

// POST /api/v1/products (admin) — new first-hand stock only; refurbished
// entries are created by the review workflow.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req productRequest
	if err := h.parseProduct(c, &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	brand := req.Brand
	if brand == "" {
		brand = "Unknown"
	}
	p := domain.Product{
		ID:          uuid.NewString(),
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Images:      h.Media.QualifyAll(req.Images),
		Stock:       req.Stock,
		Featured:    req.Featured,
		Brand:       brand,
		Active:      true,
	}
	if err := h.Prods.Insert(p); err != nil {
		applog.Error(c, "admin.product.create.fail", err, nil)
		return jsonError(c, fiber.StatusInternalServerError, "could not create product")
	}
	created, err := h.Prods.Get(p.ID)
	if err != nil {
		created = p
	}
	applog.Audit(c, "admin.product.create", map[string]any{"product_id": p.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": created})
}

// PUT /api/v1/products/:id (admin)
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	existing, err := h.Prods.Get(id)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}

	var req productRequest
	if err := h.parseProduct(c, &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	existing.CategoryID = req.CategoryID
	existing.Title = req.Title
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Images = h.Media.QualifyAll(req.Images)
	existing.Stock = req.Stock
	existing.Featured = req.Featured
	if req.Brand != "" {
		existing.Brand = req.Brand
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if err := h.Prods.Update(existing); err != nil {
		applog.Error(c, "admin.product.update.fail", err, map[string]any{"product_id": id})
		return jsonError(c, fiber.StatusInternalServerError, "could not update product")
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"product": existing})
}

// DELETE /api/v1/products/:id (admin)
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}
	if _, err := h.Prods.Get(id); err != nil {
		return jsonError(c, fiber.StatusNotFound, "product not found")
	}
	if err := h.Prods.Delete(id); err != nil {
		applog.Error(c, "admin.product.delete.fail", err, map[string]any{"product_id": id})
		return jsonError(c, fiber.StatusInternalServerError, "could not delete product")
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
