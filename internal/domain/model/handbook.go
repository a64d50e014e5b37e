// Package model holds the domain entities of the portal.
package model

import "time"

// AssociationType classifies the housing association.
type AssociationType string

const (
	// AssociationBRF — bostadsrättsförening (housing cooperative)
	AssociationBRF AssociationType = "brf"
	// AssociationSamfallighet — samfällighet (joint facility association)
	AssociationSamfallighet AssociationType = "samfallighet"
	// AssociationForening — allmän förening (general association)
	AssociationForening AssociationType = "forening"
)

// AssociationTypes lists the valid association types in display order.
var AssociationTypes = []AssociationType{
	AssociationBRF,
	AssociationSamfallighet,
	AssociationForening,
}

// ValidAssociationType reports whether t belongs to the closed set.
func ValidAssociationType(t AssociationType) bool {
	switch t {
	case AssociationBRF, AssociationSamfallighet, AssociationForening:
		return true
	default:
		return false
	}
}

// PaymentStatus is the payment state of an order.
// New records always start at PaymentPending; the transition to other
// states is driven by the external payment process, never by this core.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
)

// ValidPaymentStatus reports whether s belongs to the closed set.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed:
		return true
	default:
		return false
	}
}

// Section is a handbook chapter topic a customer may opt into.
type Section struct {
	// ID — stable key stored in selected_sections
	ID string
	// Label — Swedish display label from the order form
	Label string
}

// SectionCatalog is the fixed catalog of handbook chapter topics.
var SectionCatalog = []Section{
	{ID: "intro", Label: "Introduktion och välkomstinformation"},
	{ID: "members", Label: "Medlemsinformation"},
	{ID: "board", Label: "Styrelse och organisation"},
	{ID: "rules", Label: "Ordningsregler"},
	{ID: "maintenance", Label: "Underhåll och skötsel"},
	{ID: "economy", Label: "Ekonomi och avgifter"},
	{ID: "environment", Label: "Miljö och hållbarhet"},
	{ID: "contact", Label: "Viktiga kontaktuppgifter"},
	{ID: "calendar", Label: "Årskalender"},
}

// ValidSection reports whether id belongs to the section catalog.
func ValidSection(id string) bool {
	for _, s := range SectionCatalog {
		if s.ID == id {
			return true
		}
	}
	return false
}

// SectionLabel returns the display label for a section id, or the id
// itself when the id is unknown.
func SectionLabel(id string) string {
	for _, s := range SectionCatalog {
		if s.ID == id {
			return s.Label
		}
	}
	return id
}

// Handbook is one association's handbook order, stored in the
// handbooks table. Identifier, timestamps and version are assigned by
// the store and never set by clients.
type Handbook struct {
	// ID — UUID, server-generated, immutable
	ID string
	// CreatedAt — row creation time (server)
	CreatedAt time.Time
	// UpdatedAt — last modification time (trigger-maintained)
	UpdatedAt time.Time
	// AssociationName — required
	AssociationName string
	// AssociationType — brf, samfallighet or forening
	AssociationType AssociationType
	// Address — required
	Address string
	// ZipCode — optional
	ZipCode *string
	// City — optional
	City *string
	// ContactPerson — optional
	ContactPerson *string
	// ContactEmail — optional
	ContactEmail *string
	// ContactPhone — optional
	ContactPhone *string
	// CustomerEmail — required, used for delivery and invoicing
	CustomerEmail string
	// SelectedSections — set of section catalog keys
	SelectedSections []string
	// CustomInformation — free-text notes (optional)
	CustomInformation *string
	// LogoURL — public URL of the uploaded logo (optional)
	LogoURL *string
	// PDFURL — generated document reference, set by external processing
	PDFURL *string
	// SiteURL — published site reference, set by external processing
	SiteURL *string
	// PaymentStatus — pending, processing, completed or failed
	PaymentStatus PaymentStatus
	// PaymentID — payment reference, set by the payment process
	PaymentID *string
	// Version — monotonic counter, trigger-maintained, starts at 1
	Version int
}

// HandbookDraft is the insert payload for a new handbook order.
// It deliberately has no identifier, timestamps or version: those are
// assigned by the store. The probe pages use this same type, so no
// loosely-typed insert path exists.
type HandbookDraft struct {
	AssociationName   string
	AssociationType   AssociationType
	Address           string
	ZipCode           *string
	City              *string
	ContactPerson     *string
	ContactEmail      *string
	ContactPhone      *string
	CustomerEmail     string
	SelectedSections  []string
	CustomInformation *string
	LogoURL           *string
}

// HandbookUpdate is a partial update. Nil fields are left untouched.
// Identifier, timestamps and version cannot be expressed here, which
// keeps them out of reach of any caller.
type HandbookUpdate struct {
	AssociationName   *string
	AssociationType   *AssociationType
	Address           *string
	ZipCode           *string
	City              *string
	ContactPerson     *string
	ContactEmail      *string
	ContactPhone      *string
	CustomerEmail     *string
	SelectedSections  *[]string
	CustomInformation *string
	LogoURL           *string
	PDFURL            *string
	SiteURL           *string
	PaymentStatus     *PaymentStatus
	PaymentID         *string
}
