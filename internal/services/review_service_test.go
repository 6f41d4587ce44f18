package services_test

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"voltbay/internal/domain"
	"voltbay/internal/media"
	"voltbay/internal/repos"
	"voltbay/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// one connection so :memory: state and the foreign_keys pragma stick
	db.SetMaxOpenConns(1)
	if err := repos.EnsureSchema(db); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO categories(id,name) VALUES ('laptops','Laptops')`); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedSubmission(t *testing.T, db *sqlx.DB, id string, mut func(*domain.Submission)) domain.Submission {
	t.Helper()
	sub := domain.Submission{
		ID:          id,
		Title:       "ThinkPad T480",
		Description: "Solid workhorse, light wear",
		Category:    "laptops",
		Condition:   domain.CondGood,
		Images:      []string{"products/" + id + "/main.jpg"},
		Pricing:     domain.Priced(240),
		Brand:       "Lenovo",
		Seller:      domain.SellerContact{Name: "Sam", Email: "sam@example.com", Phone: "555-0100"},
	}
	if mut != nil {
		mut(&sub)
	}
	if err := repos.NewSubmissionRepo(db).Insert(sub); err != nil {
		t.Fatal(err)
	}
	return sub
}

func newReview(db *sqlx.DB, mediaDir string) *services.ReviewService {
	return services.NewReviewService(
		repos.NewUnitOfWork(db),
		media.NewStore("http://localhost:8080", mediaDir),
	)
}

func productCountFor(t *testing.T, db *sqlx.DB, submissionID string) int {
	t.Helper()
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products WHERE original_submission_id = ?`, submissionID); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestApprove_FieldMapping(t *testing.T) {
	db := memdb(t)
	svc := newReview(db, t.TempDir())

	seedSubmission(t, db, "sub-quote", func(s *domain.Submission) {
		s.Pricing = domain.QuoteRequested()
		s.Brand = ""
	})

	res, err := svc.Approve("sub-quote")
	if err != nil {
		t.Fatal(err)
	}

	p := res.Product
	if p.Price != 0 {
		t.Errorf("want price 0 for quote request, got %v", p.Price)
	}
	if p.Stock != 1 {
		t.Errorf("want stock 1, got %d", p.Stock)
	}
	if !p.Refurbished {
		t.Error("product should be refurbished")
	}
	if p.Condition != domain.CondGood {
		t.Errorf("condition not copied verbatim: %s", p.Condition)
	}
	if p.Brand != "Unknown" {
		t.Errorf("want brand Unknown, got %q", p.Brand)
	}
	if p.OriginalSubmissionID != "sub-quote" {
		t.Errorf("back-reference missing: %q", p.OriginalSubmissionID)
	}
	if len(p.Images) != 1 || p.Images[0] != "http://localhost:8080/media/products/sub-quote/main.jpg" {
		t.Errorf("image not qualified: %v", p.Images)
	}
	if res.Submission.Status != domain.StatusApproved {
		t.Errorf("submission status not approved: %s", res.Submission.Status)
	}

	// both sides durable
	got, err := repos.NewSubmissionRepo(db).Get("sub-quote")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.StatusApproved {
		t.Errorf("stored status = %s", got.Status)
	}
	if _, err := repos.NewProductRepo(db).GetBySubmission("sub-quote"); err != nil {
		t.Fatalf("derived product not stored: %v", err)
	}
}

func TestApprove_AskingPriceCarriesOver(t *testing.T) {
	db := memdb(t)
	svc := newReview(db, t.TempDir())
	seedSubmission(t, db, "sub-priced", nil)

	res, err := svc.Approve("sub-priced")
	if err != nil {
		t.Fatal(err)
	}
	if res.Product.Price != 240 {
		t.Errorf("want price 240, got %v", res.Product.Price)
	}
	if res.Product.Brand != "Lenovo" {
		t.Errorf("brand not copied: %q", res.Product.Brand)
	}
	if res.Product.Seller == nil || res.Product.Seller.Email != "sam@example.com" {
		t.Errorf("seller snapshot missing: %+v", res.Product.Seller)
	}
}

func TestApprove_RollbackOnInsertFailure(t *testing.T) {
	db := memdb(t)
	svc := newReview(db, t.TempDir())

	// No 'ghost' category row exists, so the product insert violates the
	// category foreign key and the transaction must abort wholesale.
	seedSubmission(t, db, "sub-ghost", func(s *domain.Submission) {
		s.Category = "ghost"
	})

	_, err := svc.Approve("sub-ghost")
	if !errors.Is(err, services.ErrPersistence) {
		t.Fatalf("want persistence failure, got %v", err)
	}

	got, gerr := repos.NewSubmissionRepo(db).Get("sub-ghost")
	if gerr != nil {
		t.Fatal(gerr)
	}
	if got.Status != domain.StatusPending {
		t.Errorf("status flipped despite rollback: %s", got.Status)
	}
	if n := productCountFor(t, db, "sub-ghost"); n != 0 {
		t.Errorf("found %d product rows after rollback", n)
	}
}

func TestApprove_TwiceRejectsSecond(t *testing.T) {
	db := memdb(t)
	svc := newReview(db, t.TempDir())
	seedSubmission(t, db, "sub-twice", nil)

	if _, err := svc.Approve("sub-twice"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Approve("sub-twice")
	var se *services.StateError
	if !errors.As(err, &se) {
		t.Fatalf("want StateError, got %v", err)
	}
	if se.Current != domain.StatusApproved {
		t.Errorf("state error should name current status, got %s", se.Current)
	}
	if n := productCountFor(t, db, "sub-twice"); n != 1 {
		t.Errorf("want exactly one derived product, got %d", n)
	}
}

func TestApprove_NotFound(t *testing.T) {
	db := memdb(t)
	svc := newReview(db, t.TempDir())

	_, err := svc.Approve("nope")
	if !errors.Is(err, services.ErrSubmissionNotFound) {
		t.Fatalf("want not-found, got %v", err)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("not-found approval mutated the catalog: %d rows", n)
	}
}

func TestApprove_ConcurrentRace(t *testing.T) {
	db := memdb(t)
	svc := newReview(db, t.TempDir())
	seedSubmission(t, db, "sub-race", nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Approve("sub-race")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var se *services.StateError
		if !errors.As(err, &se) {
			t.Errorf("loser got %v, want StateError", err)
		}
	}
	if wins != 1 {
		t.Fatalf("want exactly one winner, got %d", wins)
	}
	if n := productCountFor(t, db, "sub-race"); n != 1 {
		t.Errorf("race produced %d products", n)
	}
}

func TestDeny_RemovesRecordAndLocalMediaOnly(t *testing.T) {
	db := memdb(t)
	mediaDir := t.TempDir()
	svc := newReview(db, mediaDir)

	local := filepath.Join(mediaDir, "products", "sub-deny", "main.jpg")
	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(local, []byte("jpg"), 0o644); err != nil {
		t.Fatal(err)
	}

	seedSubmission(t, db, "sub-deny", func(s *domain.Submission) {
		s.Images = []string{
			"products/sub-deny/main.jpg",
			"https://cdn.example.com/keep/this.jpg",
		}
	})

	snap, err := svc.Deny("sub-deny", "blurry photos")
	if err != nil {
		t.Fatal(err)
	}
	if snap.Title != "ThinkPad T480" {
		t.Errorf("snapshot missing submission fields: %+v", snap)
	}
	if snap.AdminNotes != "blurry photos" {
		t.Errorf("notes not echoed: %q", snap.AdminNotes)
	}

	if _, err := os.Stat(local); !os.IsNotExist(err) {
		t.Error("local media file should be deleted")
	}

	if _, err := repos.NewSubmissionRepo(db).Get("sub-deny"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("record still retrievable after deny: %v", err)
	}
}

func TestDeny_NotPending(t *testing.T) {
	db := memdb(t)
	svc := newReview(db, t.TempDir())
	seedSubmission(t, db, "sub-approved", nil)

	if _, err := svc.Approve("sub-approved"); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Deny("sub-approved", "")
	var se *services.StateError
	if !errors.As(err, &se) {
		t.Fatalf("want StateError, got %v", err)
	}
}

func TestDeny_NotFound(t *testing.T) {
	db := memdb(t)
	svc := newReview(db, t.TempDir())

	_, err := svc.Deny("missing", "")
	if !errors.Is(err, services.ErrSubmissionNotFound) {
		t.Fatalf("want not-found, got %v", err)
	}
}

func TestDeny_MediaFailureDoesNotFailDenial(t *testing.T) {
	db := memdb(t)
	svc := newReview(db, t.TempDir())

	// Image points at a file that never existed; cleanup is best effort.
	seedSubmission(t, db, "sub-nofile", func(s *domain.Submission) {
		s.Images = []string{"products/sub-nofile/missing.jpg"}
	})

	if _, err := svc.Deny("sub-nofile", ""); err != nil {
		t.Fatalf("missing media aborted denial: %v", err)
	}
	if _, err := repos.NewSubmissionRepo(db).Get("sub-nofile"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("record still present: %v", err)
	}
}
