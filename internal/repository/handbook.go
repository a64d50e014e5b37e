package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pontush81/portal/internal/domain/model"
)

// handbookColumns is the column list shared by every SELECT.
const handbookColumns = `id, created_at, updated_at, association_name, association_type,
	address, zip_code, city, contact_person, contact_email, contact_phone,
	customer_email, selected_sections, custom_information, logo_url,
	pdf_url, site_url, payment_status, payment_id, version`

// HandbookRepository — CRUD interface for the handbooks table.
type HandbookRepository interface {
	// Create inserts a new handbook order and returns the stored row
	// with its server-assigned id, timestamps and version.
	Create(ctx context.Context, draft *model.HandbookDraft) (*model.Handbook, error)
	// GetByID returns a handbook by UUID.
	GetByID(ctx context.Context, id string) (*model.Handbook, error)
	// Update applies a partial update; nil fields are left untouched.
	Update(ctx context.Context, id string, upd *model.HandbookUpdate) (*model.Handbook, error)
	// List returns handbooks ordered by created_at descending.
	List(ctx context.Context, limit, offset int) ([]*model.Handbook, error)
	// Count returns the total number of handbooks.
	Count(ctx context.Context) (int, error)
}

// handbookRepo — HandbookRepository implementation.
type handbookRepo struct {
	db DBTX
}

// NewHandbookRepository creates the handbook repository.
func NewHandbookRepository(db DBTX) HandbookRepository {
	return &handbookRepo{db: db}
}

func (r *handbookRepo) Create(ctx context.Context, draft *model.HandbookDraft) (*model.Handbook, error) {
	query := fmt.Sprintf(`
		INSERT INTO handbooks (association_name, association_type, address,
			zip_code, city, contact_person, contact_email, contact_phone,
			customer_email, selected_sections, custom_information, logo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING %s`, handbookColumns)

	sections := draft.SelectedSections
	if sections == nil {
		sections = []string{}
	}

	row := r.db.QueryRow(ctx, query,
		draft.AssociationName, draft.AssociationType, draft.Address,
		draft.ZipCode, draft.City, draft.ContactPerson, draft.ContactEmail,
		draft.ContactPhone, draft.CustomerEmail, sections,
		draft.CustomInformation, draft.LogoURL,
	)
	h, err := scanHandbook(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: handbook already exists", ErrConflict)
		}
		return nil, fmt.Errorf("inserting handbook: %w", err)
	}
	return h, nil
}

func (r *handbookRepo) GetByID(ctx context.Context, id string) (*model.Handbook, error) {
	query := fmt.Sprintf(`SELECT %s FROM handbooks WHERE id = $1`, handbookColumns)

	h, err := scanHandbook(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("fetching handbook: %w", err)
	}
	return h, nil
}

func (r *handbookRepo) Update(ctx context.Context, id string, upd *model.HandbookUpdate) (*model.Handbook, error) {
	set, args := buildHandbookSet(upd)
	if len(set) == 0 {
		// Nothing to change; return the current row.
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE handbooks
		SET %s
		WHERE id = $%d
		RETURNING %s`, strings.Join(set, ", "), len(args), handbookColumns)

	h, err := scanHandbook(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating handbook: %w", err)
	}
	return h, nil
}

// buildHandbookSet builds the SET clauses and arguments for a partial
// update. updated_at and version are maintained by a trigger and never
// appear here.
func buildHandbookSet(upd *model.HandbookUpdate) ([]string, []any) {
	var set []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.AssociationName != nil {
		add("association_name", *upd.AssociationName)
	}
	if upd.AssociationType != nil {
		add("association_type", *upd.AssociationType)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.ZipCode != nil {
		add("zip_code", *upd.ZipCode)
	}
	if upd.City != nil {
		add("city", *upd.City)
	}
	if upd.ContactPerson != nil {
		add("contact_person", *upd.ContactPerson)
	}
	if upd.ContactEmail != nil {
		add("contact_email", *upd.ContactEmail)
	}
	if upd.ContactPhone != nil {
		add("contact_phone", *upd.ContactPhone)
	}
	if upd.CustomerEmail != nil {
		add("customer_email", *upd.CustomerEmail)
	}
	if upd.SelectedSections != nil {
		add("selected_sections", *upd.SelectedSections)
	}
	if upd.CustomInformation != nil {
		add("custom_information", *upd.CustomInformation)
	}
	if upd.LogoURL != nil {
		add("logo_url", *upd.LogoURL)
	}
	if upd.PDFURL != nil {
		add("pdf_url", *upd.PDFURL)
	}
	if upd.SiteURL != nil {
		add("site_url", *upd.SiteURL)
	}
	if upd.PaymentStatus != nil {
		add("payment_status", *upd.PaymentStatus)
	}
	if upd.PaymentID != nil {
		add("payment_id", *upd.PaymentID)
	}

	return set, args
}

func (r *handbookRepo) List(ctx context.Context, limit, offset int) ([]*model.Handbook, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("negative limit or offset: limit=%d offset=%d", limit, offset)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM handbooks
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, handbookColumns)

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing handbooks: %w", err)
	}
	defer rows.Close()

	var result []*model.Handbook
	for rows.Next() {
		h, err := scanHandbook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning handbook: %w", err)
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

func (r *handbookRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM handbooks`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting handbooks: %w", err)
	}
	return count, nil
}

// scanHandbook scans one row in handbookColumns order.
func scanHandbook(row pgx.Row) (*model.Handbook, error) {
	h := &model.Handbook{}
	err := row.Scan(
		&h.ID, &h.CreatedAt, &h.UpdatedAt, &h.AssociationName, &h.AssociationType,
		&h.Address, &h.ZipCode, &h.City, &h.ContactPerson, &h.ContactEmail,
		&h.ContactPhone, &h.CustomerEmail, &h.SelectedSections, &h.CustomInformation,
		&h.LogoURL, &h.PDFURL, &h.SiteURL, &h.PaymentStatus, &h.PaymentID, &h.Version,
	)
	if err != nil {
		return nil, err
	}
	return h, nil
}
