// submission.go — order submission: optional logo upload to the blob
// store followed by the handbook record insert.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pontush81/portal/internal/domain/model"
)

// LogoUploader is the part of the blob store client the submission
// needs. Nil when the blob store is not configured.
type LogoUploader interface {
	Upload(ctx context.Context, data []byte, contentType, path string) (storedPath, publicURL string, err error)
}

// LogoFile — an uploaded logo image from the order form.
type LogoFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// maxLogoSize caps logo uploads at 5 MB, same as the form hint.
const maxLogoSize = 5 * 1024 * 1024

// SubmissionService executes the final submit step of the order wizard.
type SubmissionService struct {
	handbooks *HandbookService
	uploader  LogoUploader
	now       func() time.Time
	logger    *slog.Logger
}

// NewSubmissionService creates the submission service.
// uploader may be nil; logo uploads are then rejected while plain
// submissions keep working.
func NewSubmissionService(handbooks *HandbookService, uploader LogoUploader, logger *slog.Logger) *SubmissionService {
	return &SubmissionService{
		handbooks: handbooks,
		uploader:  uploader,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "submission_service")),
	}
}

// Submit performs the submission side effects in order: upload the logo
// (when present), then insert the record. A failed upload aborts the
// submission before anything is persisted. A failed insert after a
// successful upload leaves the uploaded object in place; the orphan is
// logged and cleaned up out of band.
func (s *SubmissionService) Submit(ctx context.Context, draft *model.HandbookDraft, logo *LogoFile) (*model.Handbook, error) {
	if logo != nil {
		if s.uploader == nil {
			return nil, fmt.Errorf("%w: logo upload requested but no blob store is configured", ErrStoreUnavailable)
		}
		if len(logo.Data) > maxLogoSize {
			return nil, fmt.Errorf("%w: logo exceeds the %d byte limit", ErrValidation, maxLogoSize)
		}

		path := s.logoPath(logo.Filename)
		_, publicURL, err := s.uploader.Upload(ctx, logo.Data, logo.ContentType, path)
		if err != nil {
			return nil, fmt.Errorf("uploading logo: %w", err)
		}
		draft.LogoURL = &publicURL

		s.logger.Info("logo uploaded",
			slog.String("path", path),
			slog.Int("size", len(logo.Data)),
		)
	}

	h, err := s.handbooks.Create(ctx, draft)
	if err != nil {
		if draft.LogoURL != nil && !errors.Is(err, ErrValidation) {
			// The logo is already stored; the record is not. No
			// compensating delete — an upsert on retry reuses nothing,
			// so the object stays until cleaned up out of band.
			s.logger.Warn("handbook insert failed after logo upload, object orphaned",
				slog.String("logo_url", *draft.LogoURL),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	return h, nil
}

// logoPath builds a unique object path: logos/<unix-ms>_<sanitized name>.
// The timestamp prefix keeps concurrent uploads of identically named
// files from colliding.
func (s *SubmissionService) logoPath(filename string) string {
	return fmt.Sprintf("logos/%d_%s", s.now().UnixMilli(), sanitizeFilename(filename))
}

// sanitizeFilename strips path separators and control characters from a
// client-supplied filename.
func sanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r < 0x20:
			return '_'
		default:
			return r
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		return "logo"
	}
	return name
}
