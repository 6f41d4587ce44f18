package services_test

import (
	"testing"

	"voltbay/internal/repos"
	"voltbay/internal/services"
)

func TestAvailability_Thresholds(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db))

	cases := []struct {
		id    string
		stock int
		want  string
	}{
		{"a-high", 5, "IN_STOCK"},
		{"a-low", 2, "LOW_STOCK"},
		{"a-none", 0, "OUT_OF_STOCK"},
	}
	for _, c := range cases {
		seedProduct(t, db, c.id, 10, c.stock)
		av, err := svc.Availability(c.id)
		if err != nil {
			t.Fatal(err)
		}
		if av.Status != c.want {
			t.Errorf("stock %d: got %s, want %s", c.stock, av.Status, c.want)
		}
	}
}

func TestSearch_RefurbishedFilter(t *testing.T) {
	db := memdb(t)
	seedProduct(t, db, "p-new", 100, 3)
	seedSubmission(t, db, "sub-s", nil)

	review := newReview(db, t.TempDir())
	if _, err := review.Approve("sub-s"); err != nil {
		t.Fatal(err)
	}

	svc := services.NewCatalogService(repos.NewCategoryRepo(db), repos.NewProductRepo(db))

	refurb := true
	got, err := svc.Search("", "", &refurb, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].Refurbished {
		t.Fatalf("refurbished filter returned %d items: %+v", len(got), got)
	}

	refurb = false
	got, err = svc.Search("", "", &refurb, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "p-new" {
		t.Fatalf("first-hand filter returned %d items", len(got))
	}

	got, err = svc.Search("thinkpad", "", nil, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("title search returned %d items", len(got))
	}
}
