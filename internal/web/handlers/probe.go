// probe.go — developer probe pages, enabled by HB_TEST_PAGES_ENABLED.
//
// The database probe inserts a typed test order, reads it back and
// lists the latest records. The storage probe uploads a test object,
// lists the prefix and deletes the object again. Both go through the
// same services as real orders; no loosely-typed insert path exists.
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pontush81/portal/internal/blobstore"
	"github.com/pontush81/portal/internal/domain/model"
	"github.com/pontush81/portal/internal/service"
	"github.com/pontush81/portal/internal/web/pages"
)

// ProbeHandler — handlers of the /test pages.
type ProbeHandler struct {
	handbooks *service.HandbookService
	blob      *blobstore.Client // nil when the blob store is not configured
	logger    *slog.Logger
}

// NewProbeHandler creates the probe page handler.
func NewProbeHandler(handbooks *service.HandbookService, blob *blobstore.Client, logger *slog.Logger) *ProbeHandler {
	return &ProbeHandler{
		handbooks: handbooks,
		blob:      blob,
		logger:    logger.With(slog.String("component", "ui.probe")),
	}
}

// HandleIndex handles GET /test.
func (h *ProbeHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pages.TestIndexData{StorageEnabled: h.blob != nil}
	if err := pages.TestIndex(data).Render(r.Context(), w); err != nil {
		h.logger.Error("probe index render failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// probeOrderDraft — the fixed test order used by the database probe.
func probeOrderDraft() *model.HandbookDraft {
	city := "Teststad"
	return &model.HandbookDraft{
		AssociationName:  "Testförening",
		AssociationType:  model.AssociationBRF,
		Address:          "Testgatan 1",
		City:             &city,
		CustomerEmail:    "test@example.com",
		SelectedSections: []string{"intro", "contact"},
	}
}

// HandleDatabase handles GET /test/database — insert, read back, list.
func (h *ProbeHandler) HandleDatabase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := pages.ProbeData{Ran: true}

	created, err := h.handbooks.Create(ctx, probeOrderDraft())
	if err != nil {
		data.Steps = append(data.Steps, pages.ProbeStep{Name: "insert", OK: false, Detail: err.Error()})
		h.renderDatabase(w, r, data)
		return
	}
	data.Steps = append(data.Steps, pages.ProbeStep{
		Name: "insert", OK: true,
		Detail: fmt.Sprintf("id=%s version=%d payment_status=%s", created.ID, created.Version, created.PaymentStatus),
	})

	got, err := h.handbooks.Get(ctx, created.ID)
	if err != nil {
		data.Steps = append(data.Steps, pages.ProbeStep{Name: "select", OK: false, Detail: err.Error()})
		h.renderDatabase(w, r, data)
		return
	}
	data.Steps = append(data.Steps, pages.ProbeStep{
		Name: "select", OK: true,
		Detail: fmt.Sprintf("%s, %d sections", got.AssociationName, len(got.SelectedSections)),
	})

	note := fmt.Sprintf("probe update %s", time.Now().Format(time.RFC3339))
	updated, err := h.handbooks.Update(ctx, created.ID, &model.HandbookUpdate{CustomInformation: &note})
	if err != nil {
		data.Steps = append(data.Steps, pages.ProbeStep{Name: "update", OK: false, Detail: err.Error()})
		h.renderDatabase(w, r, data)
		return
	}
	data.Steps = append(data.Steps, pages.ProbeStep{
		Name: "update", OK: true,
		Detail: fmt.Sprintf("version %d → %d", created.Version, updated.Version),
	})

	list, total, err := h.handbooks.List(ctx, 5, 0)
	if err != nil {
		data.Steps = append(data.Steps, pages.ProbeStep{Name: "list", OK: false, Detail: err.Error()})
		h.renderDatabase(w, r, data)
		return
	}
	data.Steps = append(data.Steps, pages.ProbeStep{
		Name: "list", OK: true,
		Detail: fmt.Sprintf("%d of %d records", len(list), total),
	})

	h.renderDatabase(w, r, data)
}

// HandleStorage handles GET /test/storage — upload, list, delete.
func (h *ProbeHandler) HandleStorage(w http.ResponseWriter, r *http.Request) {
	if h.blob == nil {
		http.Redirect(w, r, "/test", http.StatusSeeOther)
		return
	}

	ctx := r.Context()
	data := pages.ProbeData{Ran: true}
	path := fmt.Sprintf("test/%d_probe.txt", time.Now().UnixMilli())

	_, publicURL, err := h.blob.Upload(ctx, []byte("storage probe"), "text/plain", path)
	if err != nil {
		data.Steps = append(data.Steps, pages.ProbeStep{Name: "upload", OK: false, Detail: err.Error()})
		h.renderStorage(w, r, data)
		return
	}
	data.Steps = append(data.Steps, pages.ProbeStep{Name: "upload", OK: true, Detail: publicURL})

	objects, err := h.blob.List(ctx, "test/")
	if err != nil {
		data.Steps = append(data.Steps, pages.ProbeStep{Name: "list", OK: false, Detail: err.Error()})
	} else {
		data.Steps = append(data.Steps, pages.ProbeStep{
			Name: "list", OK: true,
			Detail: fmt.Sprintf("%d objects under test/", len(objects)),
		})
	}

	if err := h.blob.Delete(ctx, path); err != nil {
		data.Steps = append(data.Steps, pages.ProbeStep{Name: "delete", OK: false, Detail: err.Error()})
	} else {
		data.Steps = append(data.Steps, pages.ProbeStep{Name: "delete", OK: true, Detail: path})
	}

	h.renderStorage(w, r, data)
}

func (h *ProbeHandler) renderDatabase(w http.ResponseWriter, r *http.Request, data pages.ProbeData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.TestDatabase(data).Render(r.Context(), w); err != nil {
		h.logger.Error("database probe render failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *ProbeHandler) renderStorage(w http.ResponseWriter, r *http.Request, data pages.ProbeData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.TestStorage(data).Render(r.Context(), w); err != nil {
		h.logger.Error("storage probe render failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
