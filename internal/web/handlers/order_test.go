package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pontush81/portal/internal/domain/model"
	"github.com/pontush81/portal/internal/repository"
	"github.com/pontush81/portal/internal/service"
	"github.com/pontush81/portal/internal/web/i18n"
)

var i18nOnce sync.Once

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupI18n loads the translation catalogs once for all handler tests.
func setupI18n(t *testing.T) {
	t.Helper()
	i18nOnce.Do(func() {
		logger := testLogger()
		bundle := i18n.Init(logger)
		if err := i18n.LoadFromEmbedFS(bundle, logger); err != nil {
			t.Fatalf("LoadFromEmbedFS() error: %v", err)
		}
	})
}

// memRepo — in-memory HandbookRepository for handler tests.
type memRepo struct {
	mu      sync.Mutex
	records map[string]*model.Handbook
}

func newMemRepo() *memRepo {
	return &memRepo{records: map[string]*model.Handbook{}}
}

func (m *memRepo) Create(_ context.Context, draft *model.HandbookDraft) (*model.Handbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	h := &model.Handbook{
		ID:               uuid.New().String(),
		CreatedAt:        now,
		UpdatedAt:        now,
		AssociationName:  draft.AssociationName,
		AssociationType:  draft.AssociationType,
		Address:          draft.Address,
		City:             draft.City,
		CustomerEmail:    draft.CustomerEmail,
		SelectedSections: append([]string(nil), draft.SelectedSections...),
		LogoURL:          draft.LogoURL,
		PaymentStatus:    model.PaymentPending,
		Version:          1,
	}
	m.records[h.ID] = h
	return h, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*model.Handbook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return h, nil
}

func (m *memRepo) Update(_ context.Context, id string, _ *model.HandbookUpdate) (*model.Handbook, error) {
	return m.GetByID(context.Background(), id)
}

func (m *memRepo) List(_ context.Context, limit, offset int) ([]*model.Handbook, error) {
	return nil, nil
}

func (m *memRepo) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records), nil
}

func newTestOrderHandler(t *testing.T, repo repository.HandbookRepository) *OrderHandler {
	t.Helper()
	setupI18n(t)
	handbooks := service.NewHandbookService(repo, testLogger())
	submissions := service.NewSubmissionService(handbooks, nil, testLogger())
	return NewOrderHandler(submissions, 299, false, testLogger())
}

// validForm returns a complete step form.
func validForm(step string) url.Values {
	return url.Values{
		"step":             {step},
		"action":           {"next"},
		"association_name": {"Brf Solsidan"},
		"association_type": {"brf"},
		"address":          {"Solvägen 1"},
		"customer_email":   {"kund@example.se"},
		"sections":         {"intro", "rules"},
	}
}

func postForm(h http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/order", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleIndex(t *testing.T) {
	h := newTestOrderHandler(t, newMemRepo())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.HandleIndex(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Skapa er digitala handbok") {
		t.Error("body missing the wizard heading")
	}
	if !strings.Contains(body, `name="association_name"`) {
		t.Error("body missing the step 1 form")
	}
}

func TestStepForwardValid(t *testing.T) {
	h := newTestOrderHandler(t, newMemRepo())

	rec := postForm(h.HandleStep, validForm("1"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	// Step 2 shows the section catalog.
	if !strings.Contains(body, "Ordningsregler") {
		t.Error("body missing the section catalog of step 2")
	}
	// The draft round-trips in hidden fields.
	if !strings.Contains(body, `value="Brf Solsidan"`) {
		t.Error("body missing the carried association name")
	}
}

func TestStepForwardMissingRequired(t *testing.T) {
	h := newTestOrderHandler(t, newMemRepo())

	form := validForm("1")
	form.Set("association_name", "")
	rec := postForm(h.HandleStep, form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Vänligen fyll i alla obligatoriska fält") {
		t.Error("body missing the required-fields toast")
	}
	// Still on step 1.
	if !strings.Contains(body, `name="step" value="1"`) {
		t.Error("wizard advanced despite the validation failure")
	}
}

func TestStepBackSkipsValidation(t *testing.T) {
	h := newTestOrderHandler(t, newMemRepo())

	form := url.Values{
		"step":   {"2"},
		"action": {"back"},
	}
	rec := postForm(h.HandleStep, form)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="step" value="1"`) {
		t.Error("back action did not render step 1")
	}
}

func TestSubmitRedirectsToConfirmation(t *testing.T) {
	repo := newMemRepo()
	h := newTestOrderHandler(t, repo)

	form := validForm("3")
	form.Set("action", "submit")
	rec := postForm(h.HandleStep, form)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	location := rec.Header().Get("Location")
	if !strings.HasPrefix(location, "/confirmation/") {
		t.Fatalf("Location = %q, want /confirmation/{id}", location)
	}
	id := strings.TrimPrefix(location, "/confirmation/")
	if _, err := repo.GetByID(context.Background(), id); err != nil {
		t.Errorf("redirect target record not persisted: %v", err)
	}
}

func TestSubmitWithoutSections(t *testing.T) {
	h := newTestOrderHandler(t, newMemRepo())

	form := validForm("3")
	form.Set("action", "submit")
	form.Del("sections")
	rec := postForm(h.HandleStep, form)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Välj minst ett avsnitt") {
		t.Error("body missing the select-section toast")
	}
}

func TestStepTampered(t *testing.T) {
	h := newTestOrderHandler(t, newMemRepo())

	form := validForm("9")
	rec := postForm(h.HandleStep, form)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// Restarts at step 1 instead of erroring.
	if !strings.Contains(rec.Body.String(), `name="step" value="1"`) {
		t.Error("tampered step did not restart the wizard")
	}
}

func TestConfirmationPage(t *testing.T) {
	setupI18n(t)
	repo := newMemRepo()
	handbooks := service.NewHandbookService(repo, testLogger())

	city := "Stockholm"
	created, err := repo.Create(context.Background(), &model.HandbookDraft{
		AssociationName:  "Brf Bekräftelsen",
		AssociationType:  model.AssociationBRF,
		Address:          "Kvittogatan 2",
		City:             &city,
		CustomerEmail:    "kund@example.se",
		SelectedSections: []string{"intro"},
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	h := NewConfirmationHandler(handbooks, testLogger())
	router := chi.NewRouter()
	router.Get("/confirmation/{id}", h.HandleConfirmation)

	// Found
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/confirmation/"+created.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Brf Bekräftelsen") {
		t.Error("body missing the association name")
	}

	// Unknown id → not found page
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/confirmation/"+uuid.New().String(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}

	// Invalid uuid → the same not found page, no error leak
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/confirmation/not-a-uuid", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("invalid id status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Kunde inte hämta handboksinformation") {
		t.Error("body missing the not-found text")
	}
}
