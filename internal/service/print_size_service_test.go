package service

import (
	"errors"
	"testing"
)

func TestPrintSizeServiceCRUD(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewPrintSizeService(env.printSizeRepo)
	ctx := t.Context()

	created, err := svc.Create(ctx, PrintSizeInput{ID: "5R", Name: "5r", Width: 5, Height: 7, Price: "2.50"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !created.IsActive || created.DisplayName != "5r" || created.Price.String() != "2.50" {
		t.Fatalf("unexpected created size: %+v", created)
	}
	if _, err := svc.Create(ctx, PrintSizeInput{ID: "5R", Name: "dup", Price: "1"}); !errors.Is(err, ErrPrintSizeExists) {
		t.Fatalf("want ErrPrintSizeExists got %v", err)
	}
	if _, err := svc.Create(ctx, PrintSizeInput{ID: "bad id!", Name: "x", Price: "1"}); !errors.Is(err, ErrPrintSizeInvalid) {
		t.Fatalf("want ErrPrintSizeInvalid got %v", err)
	}
	if _, err := svc.Create(ctx, PrintSizeInput{ID: "6R", Name: "6r", Price: "-1"}); !errors.Is(err, ErrPrintSizeInvalid) {
		t.Fatalf("negative price must be rejected, got %v", err)
	}

	updated, err := svc.Update(ctx, "5R", PrintSizeInput{Name: "5r", DisplayName: "Large 5R", Price: "2.80"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated.IsActive || updated.DisplayName != "Large 5R" || updated.Price.String() != "2.80" {
		t.Fatalf("is_active must be kept when omitted: %+v", updated)
	}
	inactive := false
	if _, err := svc.Update(ctx, "5R", PrintSizeInput{Name: "5r", Price: "2.80", IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	active, err := svc.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	for _, size := range active {
		if size.ID == "5R" || size.ID == "A3" {
			t.Fatalf("inactive size %s listed", size.ID)
		}
	}
	all, err := svc.ListAll()
	if err != nil || len(all) != 4 {
		t.Fatalf("want 4 sizes got %d err=%v", len(all), err)
	}

	if err := svc.Delete(ctx, "5R"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetByID("5R"); !errors.Is(err, ErrPrintSizeNotFound) {
		t.Fatalf("want ErrPrintSizeNotFound got %v", err)
	}
	if err := svc.Delete(ctx, "5R"); !errors.Is(err, ErrPrintSizeNotFound) {
		t.Fatalf("want ErrPrintSizeNotFound on second delete got %v", err)
	}
}

func TestDeletedPrintSizeKeepsOrderSnapshot(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewPrintSizeService(env.printSizeRepo)
	order := placeTestOrder(t, env)

	if err := svc.Delete(t.Context(), "4R"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	saved := reloadTestOrder(t, env, order.ID)
	if saved.Items[0].SizeName != "Standard 4R" || saved.Items[0].UnitPrice.String() != "1.50" {
		t.Fatalf("order snapshot changed: %+v", saved.Items[0])
	}
}
