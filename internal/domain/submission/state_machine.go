// Package submission — finite state machine for the handbook order wizard.
//
// Forward path:
//
//	collecting_basic_info → collecting_content_choices →
//	reviewing_and_confirming → submitting → submitted | submission_failed
//
// Forward transitions out of the collecting states are guarded by field
// validation; backward transitions between collecting states are always
// permitted and carry no validation. submitting is the only state with
// external side effects (blob upload, record insert) and may be re-entered
// from submission_failed for a manual retry.
package submission

import (
	"fmt"
	"strings"

	"github.com/pontush81/portal/internal/domain/model"
)

// State is a named state of the order wizard.
type State string

const (
	// StateCollectingBasicInfo — step 1, association details
	StateCollectingBasicInfo State = "collecting_basic_info"
	// StateCollectingContentChoices — step 2, sections and logo
	StateCollectingContentChoices State = "collecting_content_choices"
	// StateReviewingAndConfirming — step 3, order summary
	StateReviewingAndConfirming State = "reviewing_and_confirming"
	// StateSubmitting — side effects in flight
	StateSubmitting State = "submitting"
	// StateSubmitted — record persisted, terminal success
	StateSubmitted State = "submitted"
	// StateSubmissionFailed — upload or insert failed, retryable
	StateSubmissionFailed State = "submission_failed"
)

// Error codes for TransitionError.
const (
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeValidation        = "VALIDATION_ERROR"
)

// TransitionError is returned when a transition is rejected. The wizard
// stays in its current state; nothing is persisted.
type TransitionError struct {
	Code    string // machine-readable code (INVALID_TRANSITION, VALIDATION_ERROR)
	Message string // human-readable description
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// validTransitions maps each state to its permitted target states.
// Backward transitions between the collecting states are free; the only
// way out of submission_failed is another submit attempt.
var validTransitions = map[State]map[State]bool{
	StateCollectingBasicInfo:      {StateCollectingContentChoices: true},
	StateCollectingContentChoices: {StateReviewingAndConfirming: true, StateCollectingBasicInfo: true},
	StateReviewingAndConfirming:   {StateSubmitting: true, StateCollectingContentChoices: true, StateCollectingBasicInfo: true},
	StateSubmitting:               {StateSubmitted: true, StateSubmissionFailed: true},
	StateSubmitted:                {},
	StateSubmissionFailed:         {StateSubmitting: true},
}

// backward marks the validation-free transitions.
var backward = map[State]map[State]bool{
	StateCollectingContentChoices: {StateCollectingBasicInfo: true},
	StateReviewingAndConfirming:   {StateCollectingContentChoices: true, StateCollectingBasicInfo: true},
}

// Workflow drives one order through the wizard states.
// It is a per-request value, not shared across goroutines.
type Workflow struct {
	current State
}

// New creates a workflow in collecting_basic_info.
func New() *Workflow {
	return &Workflow{current: StateCollectingBasicInfo}
}

// Resume creates a workflow positioned at a previously reached state.
// Returns an error for unknown states (e.g. a tampered form field).
func Resume(s State) (*Workflow, error) {
	if !isValidState(s) {
		return nil, fmt.Errorf("unknown wizard state: %q", s)
	}
	return &Workflow{current: s}, nil
}

// Current returns the current state.
func (w *Workflow) Current() State {
	return w.current
}

// TransitionTo moves the workflow to target, applying the guard of the
// transition against draft. On rejection the state is unchanged and a
// *TransitionError describes the violation.
func (w *Workflow) TransitionTo(target State, draft *model.HandbookDraft) error {
	if !isValidState(target) {
		return &TransitionError{
			Code:    CodeInvalidTransition,
			Message: fmt.Sprintf("unknown target state: %q", target),
		}
	}

	targets, ok := validTransitions[w.current]
	if !ok || !targets[target] {
		return &TransitionError{
			Code:    CodeInvalidTransition,
			Message: fmt.Sprintf("transition %s → %s is not permitted", w.current, target),
		}
	}

	// Backward transitions carry no validation.
	if back, ok := backward[w.current]; ok && back[target] {
		w.current = target
		return nil
	}

	if err := transitionGuard(w.current, target, draft); err != nil {
		return err
	}

	w.current = target
	return nil
}

// transitionGuard validates the guarded forward transitions.
func transitionGuard(from, to State, draft *model.HandbookDraft) error {
	switch {
	case from == StateCollectingBasicInfo && to == StateCollectingContentChoices:
		return ValidateBasicInfo(draft)
	case from == StateReviewingAndConfirming && to == StateSubmitting:
		return ValidateContentChoices(draft)
	}
	return nil
}

// ValidateBasicInfo checks the required fields of step 1: association
// name, address and customer email must be non-blank.
func ValidateBasicInfo(draft *model.HandbookDraft) error {
	var missing []string
	if strings.TrimSpace(draft.AssociationName) == "" {
		missing = append(missing, "association_name")
	}
	if strings.TrimSpace(draft.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(draft.CustomerEmail) == "" {
		missing = append(missing, "customer_email")
	}
	if len(missing) > 0 {
		return &TransitionError{
			Code:    CodeValidation,
			Message: fmt.Sprintf("required fields missing: %s", strings.Join(missing, ", ")),
		}
	}
	if !model.ValidAssociationType(draft.AssociationType) {
		return &TransitionError{
			Code:    CodeValidation,
			Message: fmt.Sprintf("invalid association type: %q", draft.AssociationType),
		}
	}
	return nil
}

// ValidateContentChoices checks that at least one section is selected and
// every selection belongs to the catalog.
func ValidateContentChoices(draft *model.HandbookDraft) error {
	if len(draft.SelectedSections) == 0 {
		return &TransitionError{
			Code:    CodeValidation,
			Message: "at least one section must be selected",
		}
	}
	for _, id := range draft.SelectedSections {
		if !model.ValidSection(id) {
			return &TransitionError{
				Code:    CodeValidation,
				Message: fmt.Sprintf("unknown section: %q", id),
			}
		}
	}
	return nil
}

// isValidState reports whether s is a known wizard state.
func isValidState(s State) bool {
	switch s {
	case StateCollectingBasicInfo, StateCollectingContentChoices,
		StateReviewingAndConfirming, StateSubmitting,
		StateSubmitted, StateSubmissionFailed:
		return true
	default:
		return false
	}
}

// ParseState converts a string to a State.
// Returns an error for invalid values.
func ParseState(s string) (State, error) {
	st := State(s)
	if !isValidState(st) {
		return "", fmt.Errorf("invalid wizard state: %q", s)
	}
	return st, nil
}
