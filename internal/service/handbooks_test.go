package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/pontush81/portal/internal/domain/model"
)

func TestCreateValidation(t *testing.T) {
	svc := NewHandbookService(newFakeHandbookRepo(), testLogger())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.HandbookDraft)
	}{
		{"missing association_name", func(d *model.HandbookDraft) { d.AssociationName = "" }},
		{"missing address", func(d *model.HandbookDraft) { d.Address = "" }},
		{"missing customer_email", func(d *model.HandbookDraft) { d.CustomerEmail = "" }},
		{"invalid association type", func(d *model.HandbookDraft) { d.AssociationType = "kommun" }},
		{"no sections", func(d *model.HandbookDraft) { d.SelectedSections = nil }},
		{"unknown section", func(d *model.HandbookDraft) { d.SelectedSections = []string{"sauna"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(draft)
			if _, err := svc.Create(ctx, draft); !errors.Is(err, ErrValidation) {
				t.Errorf("Create() = %v, want ErrValidation", err)
			}
		})
	}

	if _, err := svc.Create(ctx, validDraft()); err != nil {
		t.Errorf("Create() with valid draft: %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc := NewHandbookService(newFakeHandbookRepo(), testLogger())

	if _, err := svc.Get(context.Background(), uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on unknown id: got %v, want ErrNotFound", err)
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	repo := newFakeHandbookRepo()
	svc := NewHandbookService(repo, testLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, validDraft())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	pid := "pi_123"
	h, err := svc.UpdatePaymentStatus(ctx, created.ID, model.PaymentCompleted, &pid)
	if err != nil {
		t.Fatalf("UpdatePaymentStatus() error: %v", err)
	}
	if h.PaymentStatus != model.PaymentCompleted {
		t.Errorf("PaymentStatus = %q, want completed", h.PaymentStatus)
	}
	if h.PaymentID == nil || *h.PaymentID != "pi_123" {
		t.Errorf("PaymentID = %v, want pi_123", h.PaymentID)
	}

	if _, err := svc.UpdatePaymentStatus(ctx, created.ID, "refunded", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("UpdatePaymentStatus() with unknown status: got %v, want ErrValidation", err)
	}
	if _, err := svc.UpdatePaymentStatus(ctx, uuid.New().String(), model.PaymentFailed, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePaymentStatus() on unknown id: got %v, want ErrNotFound", err)
	}
}

func TestListWithTotal(t *testing.T) {
	repo := newFakeHandbookRepo()
	svc := NewHandbookService(repo, testLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		draft := validDraft()
		draft.AssociationName = fmt.Sprintf("Brf Nummer %d", i)
		if _, err := svc.Create(ctx, draft); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	page, total, err := svc.List(ctx, 3, 0)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 3 {
		t.Errorf("page length = %d, want 3", len(page))
	}
	if page[0].AssociationName != "Brf Nummer 4" {
		t.Errorf("first = %q, want the newest record", page[0].AssociationName)
	}

	if _, _, err := svc.List(ctx, -1, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("List() with negative limit: got %v, want ErrValidation", err)
	}
}
