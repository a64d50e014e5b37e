package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pontush81/portal/internal/domain/model"
	"github.com/pontush81/portal/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeHandbookRepo — in-memory HandbookRepository.
type fakeHandbookRepo struct {
	records map[string]*model.Handbook
	order   []string // insertion order, newest last
	failOn  string   // method name that should fail
}

func newFakeHandbookRepo() *fakeHandbookRepo {
	return &fakeHandbookRepo{records: map[string]*model.Handbook{}}
}

func (f *fakeHandbookRepo) Create(_ context.Context, draft *model.HandbookDraft) (*model.Handbook, error) {
	if f.failOn == "Create" {
		return nil, errors.New("connection refused")
	}
	now := time.Now().UTC()
	h := &model.Handbook{
		ID:                uuid.New().String(),
		CreatedAt:         now,
		UpdatedAt:         now,
		AssociationName:   draft.AssociationName,
		AssociationType:   draft.AssociationType,
		Address:           draft.Address,
		ZipCode:           draft.ZipCode,
		City:              draft.City,
		ContactPerson:     draft.ContactPerson,
		ContactEmail:      draft.ContactEmail,
		ContactPhone:      draft.ContactPhone,
		CustomerEmail:     draft.CustomerEmail,
		SelectedSections:  append([]string(nil), draft.SelectedSections...),
		CustomInformation: draft.CustomInformation,
		LogoURL:           draft.LogoURL,
		PaymentStatus:     model.PaymentPending,
		Version:           1,
	}
	f.records[h.ID] = h
	f.order = append(f.order, h.ID)
	return h, nil
}

func (f *fakeHandbookRepo) GetByID(_ context.Context, id string) (*model.Handbook, error) {
	h, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return h, nil
}

func (f *fakeHandbookRepo) Update(_ context.Context, id string, upd *model.HandbookUpdate) (*model.Handbook, error) {
	h, ok := f.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.PaymentStatus != nil {
		h.PaymentStatus = *upd.PaymentStatus
	}
	if upd.PaymentID != nil {
		h.PaymentID = upd.PaymentID
	}
	if upd.LogoURL != nil {
		h.LogoURL = upd.LogoURL
	}
	h.Version++
	h.UpdatedAt = time.Now().UTC()
	return h, nil
}

func (f *fakeHandbookRepo) List(_ context.Context, limit, offset int) ([]*model.Handbook, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("negative limit or offset")
	}
	var result []*model.Handbook
	for i := len(f.order) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		result = append(result, f.records[f.order[i]])
	}
	return result, nil
}

func (f *fakeHandbookRepo) Count(_ context.Context) (int, error) {
	return len(f.records), nil
}

// fakeUploader records uploads and optionally fails.
type fakeUploader struct {
	uploads []string
	fail    bool
}

func (f *fakeUploader) Upload(_ context.Context, _ []byte, _, path string) (string, string, error) {
	if f.fail {
		return "", "", fmt.Errorf("blob store error: upload returned status 500")
	}
	f.uploads = append(f.uploads, path)
	return path, "https://blob.example.com/object/public/handbooks/" + path, nil
}

func validDraft() *model.HandbookDraft {
	return &model.HandbookDraft{
		AssociationName:  "Brf Solsidan",
		AssociationType:  model.AssociationBRF,
		Address:          "Solvägen 1",
		CustomerEmail:    "kund@example.se",
		SelectedSections: []string{"intro", "rules"},
	}
}

func newSubmission(repo repository.HandbookRepository, uploader LogoUploader) *SubmissionService {
	handbooks := NewHandbookService(repo, testLogger())
	return NewSubmissionService(handbooks, uploader, testLogger())
}

func TestSubmitWithoutLogo(t *testing.T) {
	repo := newFakeHandbookRepo()
	uploader := &fakeUploader{}
	svc := newSubmission(repo, uploader)

	h, err := svc.Submit(context.Background(), validDraft(), nil)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if h.LogoURL != nil {
		t.Errorf("LogoURL = %v, want nil", *h.LogoURL)
	}
	if h.PaymentStatus != model.PaymentPending {
		t.Errorf("PaymentStatus = %q, want pending", h.PaymentStatus)
	}
	if h.Version != 1 {
		t.Errorf("Version = %d, want 1", h.Version)
	}
	if len(uploader.uploads) != 0 {
		t.Errorf("uploads = %v, want none", uploader.uploads)
	}
}

func TestSubmitWithLogo(t *testing.T) {
	repo := newFakeHandbookRepo()
	uploader := &fakeUploader{}
	svc := newSubmission(repo, uploader)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	logo := &LogoFile{Filename: "logga.png", ContentType: "image/png", Data: []byte("png")}
	h, err := svc.Submit(context.Background(), validDraft(), logo)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if len(uploader.uploads) != 1 {
		t.Fatalf("uploads = %v, want exactly one", uploader.uploads)
	}
	if uploader.uploads[0] != "logos/1700000000000_logga.png" {
		t.Errorf("upload path = %q, want timestamped logos path", uploader.uploads[0])
	}
	if h.LogoURL == nil || !strings.Contains(*h.LogoURL, "logos/1700000000000_logga.png") {
		t.Errorf("LogoURL = %v, want the public object URL", h.LogoURL)
	}
}

func TestSubmitUploadFailureAbortsInsert(t *testing.T) {
	repo := newFakeHandbookRepo()
	uploader := &fakeUploader{fail: true}
	svc := newSubmission(repo, uploader)

	logo := &LogoFile{Filename: "logga.png", ContentType: "image/png", Data: []byte("png")}
	_, err := svc.Submit(context.Background(), validDraft(), logo)
	if err == nil {
		t.Fatal("Submit() with failing upload should error")
	}
	if len(repo.records) != 0 {
		t.Errorf("records = %d, want 0 — nothing must be persisted after a failed upload", len(repo.records))
	}
}

func TestSubmitInsertFailureLeavesOrphan(t *testing.T) {
	repo := newFakeHandbookRepo()
	repo.failOn = "Create"
	uploader := &fakeUploader{}
	svc := newSubmission(repo, uploader)

	logo := &LogoFile{Filename: "logga.png", ContentType: "image/png", Data: []byte("png")}
	_, err := svc.Submit(context.Background(), validDraft(), logo)
	if err == nil {
		t.Fatal("Submit() with failing insert should error")
	}
	// The uploaded object stays; no compensating delete.
	if len(uploader.uploads) != 1 {
		t.Errorf("uploads = %v, want the orphaned upload kept", uploader.uploads)
	}
}

func TestSubmitLogoWithoutBlobStore(t *testing.T) {
	repo := newFakeHandbookRepo()
	svc := newSubmission(repo, nil)

	logo := &LogoFile{Filename: "logga.png", ContentType: "image/png", Data: []byte("png")}
	_, err := svc.Submit(context.Background(), validDraft(), logo)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Submit() without blob store: got %v, want ErrStoreUnavailable", err)
	}

	// Plain submissions keep working.
	if _, err := svc.Submit(context.Background(), validDraft(), nil); err != nil {
		t.Errorf("Submit() without logo: %v", err)
	}
}

func TestSubmitOversizedLogo(t *testing.T) {
	repo := newFakeHandbookRepo()
	uploader := &fakeUploader{}
	svc := newSubmission(repo, uploader)

	logo := &LogoFile{Filename: "big.png", ContentType: "image/png", Data: make([]byte, maxLogoSize+1)}
	_, err := svc.Submit(context.Background(), validDraft(), logo)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Submit() with oversized logo: got %v, want ErrValidation", err)
	}
	if len(uploader.uploads) != 0 {
		t.Errorf("uploads = %v, want none", uploader.uploads)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"logga.png", "logga.png"},
		{"../../etc/passwd", ".._.._etc_passwd"},
		{"min logga.png", "min logga.png"},
		{"", "logo"},
		{"..", "logo"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
