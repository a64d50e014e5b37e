// order.go — the handbook order wizard.
//
// The wizard is plain server-rendered HTML: each step POSTs the whole
// draft back to /order in hidden fields, the submission state machine
// decides which step comes next, and the matching view is rendered. No
// server-side session exists; the draft lives in the form itself.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pontush81/portal/internal/blobstore"
	"github.com/pontush81/portal/internal/domain/model"
	"github.com/pontush81/portal/internal/domain/submission"
	"github.com/pontush81/portal/internal/service"
	"github.com/pontush81/portal/internal/web/pages"
)

// maxFormMemory caps multipart parsing at 6 MB: the 5 MB logo limit
// plus headroom for the text fields.
const maxFormMemory = 6 * 1024 * 1024

// OrderHandler — handlers of the order wizard.
type OrderHandler struct {
	submissions *service.SubmissionService
	price       int
	logoEnabled bool
	logger      *slog.Logger
}

// NewOrderHandler creates the order wizard handler.
func NewOrderHandler(submissions *service.SubmissionService, price int, logoEnabled bool, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		submissions: submissions,
		price:       price,
		logoEnabled: logoEnabled,
		logger:      logger.With(slog.String("component", "ui.order")),
	}
}

// HandleIndex handles GET / — an empty wizard at step 1.
func (h *OrderHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	form := pages.OrderForm{
		Step:            pages.StepBasicInfo,
		AssociationType: string(model.AssociationBRF),
		Price:           h.price,
		LogoEnabled:     h.logoEnabled,
	}
	h.render(w, r, form)
}

// HandleStep handles POST /order — every wizard transition: next, back
// and the final submit.
func (h *OrderHandler) HandleStep(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			h.logger.Warn("multipart parse failed", slog.String("error", err.Error()))
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
	} else if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := formFromRequest(r)
	form.Price = h.price
	form.LogoEnabled = h.logoEnabled

	state, ok := stepState(r.FormValue("step"))
	if !ok {
		// Tampered step field: restart the wizard.
		form.Step = pages.StepBasicInfo
		h.render(w, r, form)
		return
	}
	workflow, err := submission.Resume(state)
	if err != nil {
		form.Step = pages.StepBasicInfo
		h.render(w, r, form)
		return
	}

	action := r.FormValue("action")
	draft := formToDraft(form)

	if action == "submit" {
		h.handleSubmit(w, r, workflow, form, draft)
		return
	}

	target, ok := nextState(workflow.Current(), action)
	if !ok {
		h.render(w, r, form)
		return
	}

	if err := workflow.TransitionTo(target, draft); err != nil {
		var te *submission.TransitionError
		if errors.As(err, &te) && te.Code == submission.CodeValidation {
			form.Step = stateStep(workflow.Current())
			form.ErrorKey = validationToast(workflow.Current())
			h.render(w, r, form)
			return
		}
		h.logger.Warn("wizard transition rejected",
			slog.String("from", string(workflow.Current())),
			slog.String("to", string(target)),
			slog.String("error", err.Error()),
		)
		form.Step = pages.StepBasicInfo
		h.render(w, r, form)
		return
	}

	form.Step = stateStep(workflow.Current())
	h.render(w, r, form)
}

// handleSubmit runs review → submitting → submitted|submission_failed.
func (h *OrderHandler) handleSubmit(w http.ResponseWriter, r *http.Request, workflow *submission.Workflow, form pages.OrderForm, draft *model.HandbookDraft) {
	if err := workflow.TransitionTo(submission.StateSubmitting, draft); err != nil {
		form.Step = pages.StepReview
		form.ErrorKey = validationToast(submission.StateReviewingAndConfirming)
		h.render(w, r, form)
		return
	}

	logo, errKey := h.extractLogo(r)
	if errKey != "" {
		form.Step = pages.StepReview
		form.ErrorKey = errKey
		h.render(w, r, form)
		return
	}

	handbook, err := h.submissions.Submit(r.Context(), draft, logo)
	if err != nil {
		// Rejected side effects put the order into submission_failed;
		// the review step is rendered again so the user can retry.
		_ = workflow.TransitionTo(submission.StateSubmissionFailed, draft)
		h.logger.Error("order submission failed", slog.String("error", err.Error()))

		form.Step = pages.StepReview
		switch {
		case errors.Is(err, service.ErrStoreUnavailable), errors.Is(err, blobstore.ErrStorage):
			form.ErrorKey = "toast.storage_unavailable"
		case errors.Is(err, service.ErrValidation):
			form.ErrorKey = "toast.required_fields"
		default:
			form.ErrorKey = "toast.error"
		}
		h.render(w, r, form)
		return
	}

	_ = workflow.TransitionTo(submission.StateSubmitted, draft)
	http.Redirect(w, r, "/confirmation/"+handbook.ID, http.StatusSeeOther)
}

// extractLogo reads the optional logo file from the multipart form.
// Returns a toast key when the file is unusable.
func (h *OrderHandler) extractLogo(r *http.Request) (*service.LogoFile, string) {
	if r.MultipartForm == nil {
		return nil, ""
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ""
		}
		h.logger.Warn("logo read failed", slog.String("error", err.Error()))
		return nil, "toast.error"
	}
	defer file.Close()

	if header.Size == 0 {
		return nil, ""
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Warn("logo read failed", slog.String("error", err.Error()))
		return nil, "toast.error"
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &service.LogoFile{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, ""
}

// render writes the wizard page for the form's step.
func (h *OrderHandler) render(w http.ResponseWriter, r *http.Request, form pages.OrderForm) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Order(form).Render(r.Context(), w); err != nil {
		h.logger.Error("order page render failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// formFromRequest reads the draft fields from the posted form.
func formFromRequest(r *http.Request) pages.OrderForm {
	return pages.OrderForm{
		AssociationName:   strings.TrimSpace(r.FormValue("association_name")),
		AssociationType:   r.FormValue("association_type"),
		Address:           strings.TrimSpace(r.FormValue("address")),
		ZipCode:           strings.TrimSpace(r.FormValue("zip_code")),
		City:              strings.TrimSpace(r.FormValue("city")),
		ContactPerson:     strings.TrimSpace(r.FormValue("contact_person")),
		ContactEmail:      strings.TrimSpace(r.FormValue("contact_email")),
		ContactPhone:      strings.TrimSpace(r.FormValue("contact_phone")),
		CustomerEmail:     strings.TrimSpace(r.FormValue("customer_email")),
		SelectedSections:  r.Form["sections"],
		CustomInformation: strings.TrimSpace(r.FormValue("custom_information")),
	}
}

// formToDraft converts the wizard form into the insert payload.
// Blank optional fields become nil.
func formToDraft(f pages.OrderForm) *model.HandbookDraft {
	return &model.HandbookDraft{
		AssociationName:   f.AssociationName,
		AssociationType:   model.AssociationType(f.AssociationType),
		Address:           f.Address,
		ZipCode:           optional(f.ZipCode),
		City:              optional(f.City),
		ContactPerson:     optional(f.ContactPerson),
		ContactEmail:      optional(f.ContactEmail),
		ContactPhone:      optional(f.ContactPhone),
		CustomerEmail:     f.CustomerEmail,
		SelectedSections:  f.SelectedSections,
		CustomInformation: optional(f.CustomInformation),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// stepState maps the posted step number to its wizard state.
func stepState(step string) (submission.State, bool) {
	switch step {
	case "1":
		return submission.StateCollectingBasicInfo, true
	case "2":
		return submission.StateCollectingContentChoices, true
	case "3":
		return submission.StateReviewingAndConfirming, true
	default:
		return "", false
	}
}

// stateStep maps a wizard state back to its page step.
func stateStep(s submission.State) int {
	switch s {
	case submission.StateCollectingContentChoices:
		return pages.StepContent
	case submission.StateReviewingAndConfirming:
		return pages.StepReview
	default:
		return pages.StepBasicInfo
	}
}

// nextState resolves the target state for a next/back action.
func nextState(current submission.State, action string) (submission.State, bool) {
	switch {
	case current == submission.StateCollectingBasicInfo && action == "next":
		return submission.StateCollectingContentChoices, true
	case current == submission.StateCollectingContentChoices && action == "next":
		return submission.StateReviewingAndConfirming, true
	case current == submission.StateCollectingContentChoices && action == "back":
		return submission.StateCollectingBasicInfo, true
	case current == submission.StateReviewingAndConfirming && action == "back":
		return submission.StateCollectingContentChoices, true
	default:
		return "", false
	}
}

// validationToast picks the toast for a rejected forward transition.
func validationToast(state submission.State) string {
	if state == submission.StateReviewingAndConfirming {
		return "toast.select_section"
	}
	return "toast.required_fields"
}
