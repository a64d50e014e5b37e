// confirmation.go — order confirmation page.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pontush81/portal/internal/service"
	"github.com/pontush81/portal/internal/web/pages"
)

// ConfirmationHandler — handler of GET /confirmation/{id}.
type ConfirmationHandler struct {
	handbooks *service.HandbookService
	logger    *slog.Logger
}

// NewConfirmationHandler creates the confirmation page handler.
func NewConfirmationHandler(handbooks *service.HandbookService, logger *slog.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{
		handbooks: handbooks,
		logger:    logger.With(slog.String("component", "ui.confirmation")),
	}
}

// HandleConfirmation renders the confirmation for an order id. Invalid
// ids, unknown ids and lookup failures all render the same not-found
// page — the visitor cannot tell which it was, and that is intended.
func (h *ConfirmationHandler) HandleConfirmation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if _, err := uuid.Parse(id); err != nil {
		h.renderNotFound(w, r)
		return
	}

	handbook, err := h.handbooks.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			h.logger.Error("confirmation lookup failed",
				slog.String("id", id),
				slog.String("error", err.Error()),
			)
		}
		h.renderNotFound(w, r)
		return
	}

	data := pages.ConfirmationData{
		ID:               handbook.ID,
		AssociationName:  handbook.AssociationName,
		Address:          handbook.Address,
		CustomerEmail:    handbook.CustomerEmail,
		SelectedSections: handbook.SelectedSections,
		PaymentStatus:    handbook.PaymentStatus,
		CreatedAt:        handbook.CreatedAt,
	}
	if handbook.City != nil {
		data.City = *handbook.City
	}
	if handbook.LogoURL != nil {
		data.LogoURL = *handbook.LogoURL
	}

	if err := pages.Confirmation(data).Render(r.Context(), w); err != nil {
		h.logger.Error("confirmation render failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *ConfirmationHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	if err := pages.ConfirmationNotFound().Render(r.Context(), w); err != nil {
		h.logger.Error("confirmation render failed", slog.String("error", err.Error()))
	}
}
