package services_test

import (
	"errors"
	"testing"

	"voltbay/internal/domain"
	"voltbay/internal/repos"
	"voltbay/internal/services"
)

func TestRepair_BookAndTransition(t *testing.T) {
	db := memdb(t)
	svc := services.NewRepairService(repos.NewRepairRepo(db))

	rep, err := svc.Book(services.RepairInput{
		Device:        "MacBook Pro 2019",
		Brand:         "Apple",
		Issue:         "battery swelling",
		PreferredDate: "2026-09-15",
		CustomerName:  "Jo",
		CustomerEmail: "jo@example.com",
		CustomerPhone: "555-0102",
	})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Status != domain.RepairRequested {
		t.Fatalf("new booking status = %s", rep.Status)
	}

	if _, err := svc.UpdateStatus(rep.ID, domain.RepairCompleted, ""); err == nil {
		t.Error("REQUESTED -> COMPLETED should be rejected")
	}

	rep, err = svc.UpdateStatus(rep.ID, domain.RepairConfirmed, "bring charger")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Status != domain.RepairConfirmed {
		t.Errorf("status = %s", rep.Status)
	}
	if rep.Notes != "bring charger" {
		t.Errorf("notes not stored: %q", rep.Notes)
	}

	// empty notes on a later transition keep the existing ones
	rep, err = svc.UpdateStatus(rep.ID, domain.RepairCompleted, "")
	if err != nil {
		t.Fatal(err)
	}
	if rep.Notes != "bring charger" {
		t.Errorf("notes clobbered: %q", rep.Notes)
	}

	if _, err := svc.UpdateStatus(rep.ID, domain.RepairCanceled, ""); err == nil {
		t.Error("COMPLETED is terminal")
	}
}

func TestRepair_NotFound(t *testing.T) {
	db := memdb(t)
	svc := services.NewRepairService(repos.NewRepairRepo(db))

	if _, err := svc.Get("missing"); !errors.Is(err, services.ErrRepairNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}
