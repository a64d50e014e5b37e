// handbooks.go — handbook order service.
// CRUD over the handbooks table plus the payment status update used by
// the external payment process.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pontush81/portal/internal/domain/model"
	"github.com/pontush81/portal/internal/repository"
)

// HandbookService — service over the handbook order records.
type HandbookService struct {
	repo   repository.HandbookRepository
	logger *slog.Logger
}

// NewHandbookService creates the handbook service.
func NewHandbookService(repo repository.HandbookRepository, logger *slog.Logger) *HandbookService {
	return &HandbookService{
		repo:   repo,
		logger: logger.With(slog.String("component", "handbook_service")),
	}
}

// Create validates the draft and inserts a new handbook order.
func (s *HandbookService) Create(ctx context.Context, draft *model.HandbookDraft) (*model.Handbook, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	h, err := s.repo.Create(ctx, draft)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: handbook already exists", ErrConflict)
		}
		return nil, fmt.Errorf("creating handbook: %w", err)
	}

	s.logger.Info("handbook created",
		slog.String("id", h.ID),
		slog.String("association_name", h.AssociationName),
		slog.Int("sections", len(h.SelectedSections)),
	)

	return h, nil
}

// Get returns a handbook by id.
func (s *HandbookService) Get(ctx context.Context, id string) (*model.Handbook, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching handbook: %w", err)
	}
	return h, nil
}

// Update applies a partial update to a handbook.
func (s *HandbookService) Update(ctx context.Context, id string, upd *model.HandbookUpdate) (*model.Handbook, error) {
	if upd.PaymentStatus != nil && !model.ValidPaymentStatus(*upd.PaymentStatus) {
		return nil, fmt.Errorf("%w: invalid payment status %q", ErrValidation, *upd.PaymentStatus)
	}
	if upd.AssociationType != nil && !model.ValidAssociationType(*upd.AssociationType) {
		return nil, fmt.Errorf("%w: invalid association type %q", ErrValidation, *upd.AssociationType)
	}
	if upd.SelectedSections != nil {
		for _, id := range *upd.SelectedSections {
			if !model.ValidSection(id) {
				return nil, fmt.Errorf("%w: unknown section %q", ErrValidation, id)
			}
		}
	}

	h, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating handbook: %w", err)
	}
	return h, nil
}

// List returns a page of handbooks (newest first) with the total count.
func (s *HandbookService) List(ctx context.Context, limit, offset int) ([]*model.Handbook, int, error) {
	if limit < 0 || offset < 0 {
		return nil, 0, fmt.Errorf("%w: negative limit or offset", ErrValidation)
	}

	handbooks, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing handbooks: %w", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("counting handbooks: %w", err)
	}

	return handbooks, total, nil
}

// UpdatePaymentStatus moves an order to a new payment state, optionally
// recording the payment reference.
func (s *HandbookService) UpdatePaymentStatus(ctx context.Context, id string, status model.PaymentStatus, paymentID *string) (*model.Handbook, error) {
	if !model.ValidPaymentStatus(status) {
		return nil, fmt.Errorf("%w: invalid payment status %q", ErrValidation, status)
	}

	h, err := s.Update(ctx, id, &model.HandbookUpdate{
		PaymentStatus: &status,
		PaymentID:     paymentID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment status updated",
		slog.String("id", id),
		slog.String("status", string(status)),
	)

	return h, nil
}

// validateDraft enforces the insert invariants: required fields, valid
// association type, at least one known section.
func validateDraft(draft *model.HandbookDraft) error {
	if draft.AssociationName == "" || draft.Address == "" || draft.CustomerEmail == "" {
		return fmt.Errorf("%w: association_name, address and customer_email are required", ErrValidation)
	}
	if !model.ValidAssociationType(draft.AssociationType) {
		return fmt.Errorf("%w: invalid association type %q", ErrValidation, draft.AssociationType)
	}
	if len(draft.SelectedSections) == 0 {
		return fmt.Errorf("%w: at least one section must be selected", ErrValidation)
	}
	for _, id := range draft.SelectedSections {
		if !model.ValidSection(id) {
			return fmt.Errorf("%w: unknown section %q", ErrValidation, id)
		}
	}
	return nil
}
