// info.go — static content pages: terms, privacy, 404.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pontush81/portal/internal/web/pages"
)

// InfoHandler — handlers of the static content pages.
type InfoHandler struct {
	logger *slog.Logger
}

// NewInfoHandler creates the static page handler.
func NewInfoHandler(logger *slog.Logger) *InfoHandler {
	return &InfoHandler{logger: logger.With(slog.String("component", "ui.info"))}
}

// HandleTerms handles GET /terms.
func (h *InfoHandler) HandleTerms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Terms().Render(r.Context(), w); err != nil {
		h.logger.Error("terms render failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// HandlePrivacy handles GET /privacy.
func (h *InfoHandler) HandlePrivacy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Privacy().Render(r.Context(), w); err != nil {
		h.logger.Error("privacy render failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// HandleNotFound handles every unmatched route.
func (h *InfoHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := pages.NotFound().Render(r.Context(), w); err != nil {
		h.logger.Error("not-found render failed", slog.String("error", err.Error()))
	}
}
