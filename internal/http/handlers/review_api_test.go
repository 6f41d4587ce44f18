package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"voltbay/internal/auth"
	"voltbay/internal/config"
	"voltbay/internal/domain"
	"voltbay/internal/http/handlers"
	"voltbay/internal/repos"
)

type testAPI struct {
	app    *fiber.App
	db     *sqlx.DB
	tokens *auth.Tokens
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO categories(id,name) VALUES ('laptops','Laptops')`); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		Port:      "8080",
		ServerURL: "http://localhost:8080",
		MediaDir:  t.TempDir(),
	}
	tokens := auth.NewTokens("test-secret", time.Hour)
	deps := handlers.NewDeps(db, cfg, tokens)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/used-products", deps.SubmissionHandler.Create)
	api.Get("/used-products", handlers.RequireAdmin(tokens), deps.SubmissionHandler.List)
	api.Get("/used-products/:id", handlers.RequireAdmin(tokens), deps.SubmissionHandler.Detail)
	api.Patch("/used-products/:id/approve", handlers.RequireAdmin(tokens), deps.ReviewHandler.Approve)
	api.Patch("/used-products/:id/deny", handlers.RequireAdmin(tokens), deps.ReviewHandler.Deny)

	return testAPI{app: app, db: db, tokens: tokens}
}

func (a testAPI) token(t *testing.T, role string) string {
	t.Helper()
	tok, err := a.tokens.Issue("u-"+role, role+"@example.com", role)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (a testAPI) seedPending(t *testing.T, id string) {
	t.Helper()
	err := repos.NewSubmissionRepo(a.db).Insert(domain.Submission{
		ID:        id,
		Title:     "Pixel 7",
		Category:  "laptops",
		Condition: domain.CondExcellent,
		Pricing:   domain.Priced(300),
		Seller:    domain.SellerContact{Name: "Sam", Email: "sam@example.com", Phone: "555-0100"},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestReviewEndpoints_AuthRequired(t *testing.T) {
	a := newTestAPI(t)
	a.seedPending(t, "sub-1")

	req := httptest.NewRequest(fiber.MethodPatch, "/api/v1/used-products/sub-1/approve", nil)
	resp, err := a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("no token: status %d", resp.StatusCode)
	}

	req = httptest.NewRequest(fiber.MethodPatch, "/api/v1/used-products/sub-1/approve", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+a.token(t, "USER"))
	resp, err = a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("user token: status %d", resp.StatusCode)
	}

	// token must not grant the approval either way
	var n int
	if err := a.db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("unauthorized request created %d products", n)
	}
}

func TestReviewEndpoint_Approve(t *testing.T) {
	a := newTestAPI(t)
	a.seedPending(t, "sub-ok")
	admin := a.token(t, "ADMIN")

	req := httptest.NewRequest(fiber.MethodPatch, "/api/v1/used-products/sub-ok/approve", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+admin)
	resp, err := a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("approve status %d", resp.StatusCode)
	}

	var body struct {
		Message     string `json:"message"`
		UsedProduct struct {
			Status string `json:"status"`
		} `json:"usedProduct"`
		NewProduct struct {
			ID                   string `json:"id"`
			Refurbished          bool   `json:"refurbished"`
			OriginalSubmissionID string `json:"originalSubmissionId"`
		} `json:"newProduct"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.UsedProduct.Status != "approved" {
		t.Errorf("usedProduct.status = %s", body.UsedProduct.Status)
	}
	if body.NewProduct.ID == "" || !body.NewProduct.Refurbished || body.NewProduct.OriginalSubmissionID != "sub-ok" {
		t.Errorf("newProduct = %+v", body.NewProduct)
	}

	// repeat approval is a state conflict, not a success
	req = httptest.NewRequest(fiber.MethodPatch, "/api/v1/used-products/sub-ok/approve", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+admin)
	resp, err = a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("second approve status %d", resp.StatusCode)
	}
}

func TestReviewEndpoint_ApproveNotFound(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(fiber.MethodPatch, "/api/v1/used-products/ghost/approve", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+a.token(t, "ADMIN"))
	resp, err := a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status %d, want 404", resp.StatusCode)
	}
}

func TestReviewEndpoint_DenyWithNotes(t *testing.T) {
	a := newTestAPI(t)
	a.seedPending(t, "sub-deny")
	admin := a.token(t, "ADMIN")

	payload, _ := json.Marshal(fiber.Map{"notes": "photos too dark"})
	req := httptest.NewRequest(fiber.MethodPatch, "/api/v1/used-products/sub-deny/deny", bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+admin)
	resp, err := a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("deny status %d", resp.StatusCode)
	}

	var body struct {
		UsedProduct struct {
			AdminNotes string `json:"adminNotes"`
		} `json:"usedProduct"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.UsedProduct.AdminNotes != "photos too dark" {
		t.Errorf("adminNotes = %q", body.UsedProduct.AdminNotes)
	}

	// the record is gone afterwards
	req = httptest.NewRequest(fiber.MethodGet, "/api/v1/used-products/sub-deny", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+admin)
	resp, err = a.app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("detail after deny: status %d", resp.StatusCode)
	}
}

func TestIntakeEndpoint_PricingExclusive(t *testing.T) {
	a := newTestAPI(t)

	post := func(body fiber.Map) int {
		payload, _ := json.Marshal(body)
		req := httptest.NewRequest(fiber.MethodPost, "/api/v1/used-products", bytes.NewReader(payload))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := a.app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		return resp.StatusCode
	}

	base := fiber.Map{
		"title":       "Galaxy S22",
		"category":    "laptops",
		"condition":   "Good",
		"sellerName":  "Sam",
		"sellerEmail": "sam@example.com",
		"sellerPhone": "555-0100",
	}
	with := func(extra fiber.Map) fiber.Map {
		m := fiber.Map{}
		for k, v := range base {
			m[k] = v
		}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}

	if got := post(with(fiber.Map{"askingPrice": 200, "requestQuote": true})); got != fiber.StatusBadRequest {
		t.Errorf("both pricing fields: status %d", got)
	}
	if got := post(with(fiber.Map{})); got != fiber.StatusBadRequest {
		t.Errorf("neither pricing field: status %d", got)
	}
	if got := post(with(fiber.Map{"askingPrice": 200})); got != fiber.StatusCreated {
		t.Errorf("asking price only: status %d", got)
	}
	if got := post(with(fiber.Map{"requestQuote": true})); got != fiber.StatusCreated {
		t.Errorf("quote request only: status %d", got)
	}
}
