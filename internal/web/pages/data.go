// Package pages — templ views of the portal UI.
// The markup lives in .templ files; run `templ generate` before
// building. This file holds the view data passed in by the handlers.
package pages

import (
	"time"

	"github.com/pontush81/portal/internal/domain/model"
)

// Wizard steps.
const (
	StepBasicInfo = 1
	StepContent   = 2
	StepReview    = 3
)

// OrderForm carries the order draft between wizard steps. The values
// round-trip through hidden form fields; there is no server-side
// session.
type OrderForm struct {
	Step int

	AssociationName   string
	AssociationType   string
	Address           string
	ZipCode           string
	City              string
	ContactPerson     string
	ContactEmail      string
	ContactPhone      string
	CustomerEmail     string
	SelectedSections  []string
	CustomInformation string

	// ErrorKey — i18n key of a validation toast, empty when none.
	ErrorKey string

	// Price shown on the review step.
	Price int
	// LogoEnabled — whether the blob store accepts logo uploads.
	LogoEnabled bool
}

// SectionSelected reports whether a section id is in the draft.
func (f OrderForm) SectionSelected(id string) bool {
	for _, s := range f.SelectedSections {
		if s == id {
			return true
		}
	}
	return false
}

// AllSectionsSelected reports whether every catalog section is chosen.
func (f OrderForm) AllSectionsSelected() bool {
	return len(f.SelectedSections) == len(model.SectionCatalog)
}

// ConfirmationData — view data of the confirmation page.
type ConfirmationData struct {
	ID               string
	AssociationName  string
	Address          string
	City             string
	CustomerEmail    string
	SelectedSections []string
	LogoURL          string
	PaymentStatus    model.PaymentStatus
	CreatedAt        time.Time
}

// ProbeStep — one step of a probe run with its outcome.
type ProbeStep struct {
	Name   string
	OK     bool
	Detail string
}

// ProbeData — view data of the database and storage probe pages.
type ProbeData struct {
	Ran   bool
	Steps []ProbeStep
}

// OK reports whether every executed step succeeded.
func (d ProbeData) OK() bool {
	for _, s := range d.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

// TestIndexData — view data of the probe index page.
type TestIndexData struct {
	StorageEnabled bool
}
