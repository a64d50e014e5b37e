package submission

import (
	"errors"
	"testing"

	"github.com/pontush81/portal/internal/domain/model"
)

// validDraft returns a draft that satisfies every guard.
func validDraft() *model.HandbookDraft {
	return &model.HandbookDraft{
		AssociationName:  "Brf Solhöjden",
		AssociationType:  model.AssociationBRF,
		Address:          "Exempelgatan 1",
		CustomerEmail:    "a@b.se",
		SelectedSections: []string{"intro", "rules"},
	}
}

// TestResume checks workflow construction from a persisted state.
func TestResume(t *testing.T) {
	tests := []struct {
		state   State
		wantErr bool
	}{
		{StateCollectingBasicInfo, false},
		{StateReviewingAndConfirming, false},
		{StateSubmitted, false},
		{State("step-2"), true},
		{State(""), true},
	}

	for _, tt := range tests {
		w, err := Resume(tt.state)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Resume(%q): expected error", tt.state)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resume(%q): unexpected error: %v", tt.state, err)
			continue
		}
		if w.Current() != tt.state {
			t.Errorf("Current() = %q, want %q", w.Current(), tt.state)
		}
	}
}

// TestBasicInfoGuard checks that the step 1 guard keeps the wizard in
// place when a required field is blank.
func TestBasicInfoGuard(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.HandbookDraft)
	}{
		{"empty association_name", func(d *model.HandbookDraft) { d.AssociationName = "" }},
		{"blank address", func(d *model.HandbookDraft) { d.Address = "   " }},
		{"empty customer_email", func(d *model.HandbookDraft) { d.CustomerEmail = "" }},
		{"invalid association type", func(d *model.HandbookDraft) { d.AssociationType = "kommun" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			draft := validDraft()
			tt.mutate(draft)

			err := w.TransitionTo(StateCollectingContentChoices, draft)
			if err == nil {
				t.Fatal("expected guard violation")
			}
			var te *TransitionError
			if !errors.As(err, &te) {
				t.Fatalf("expected *TransitionError, got %T", err)
			}
			if te.Code != CodeValidation {
				t.Errorf("Code = %q, want %q", te.Code, CodeValidation)
			}
			if w.Current() != StateCollectingBasicInfo {
				t.Errorf("state changed to %q on rejected transition", w.Current())
			}
		})
	}

	// All three values present — the transition succeeds.
	w := New()
	if err := w.TransitionTo(StateCollectingContentChoices, validDraft()); err != nil {
		t.Fatalf("valid draft rejected: %v", err)
	}
	if w.Current() != StateCollectingContentChoices {
		t.Errorf("Current() = %q, want %q", w.Current(), StateCollectingContentChoices)
	}
}

// TestContentToReviewUnconditional checks that step 2 → step 3 has no
// guard beyond what the form itself enforces.
func TestContentToReviewUnconditional(t *testing.T) {
	w, _ := Resume(StateCollectingContentChoices)
	draft := validDraft()
	draft.SelectedSections = nil // still fine at this boundary

	if err := w.TransitionTo(StateReviewingAndConfirming, draft); err != nil {
		t.Fatalf("content → review should be unconditional: %v", err)
	}
}

// TestSubmitRequiresSections checks the review → submitting guard.
func TestSubmitRequiresSections(t *testing.T) {
	w, _ := Resume(StateReviewingAndConfirming)
	draft := validDraft()
	draft.SelectedSections = []string{}

	err := w.TransitionTo(StateSubmitting, draft)
	if err == nil {
		t.Fatal("empty selected_sections must be rejected")
	}
	if w.Current() != StateReviewingAndConfirming {
		t.Errorf("state changed to %q on rejected submit", w.Current())
	}

	// Selecting a section afterwards allows submission to proceed.
	draft.SelectedSections = []string{"rules"}
	if err := w.TransitionTo(StateSubmitting, draft); err != nil {
		t.Fatalf("submit with one section rejected: %v", err)
	}
	if w.Current() != StateSubmitting {
		t.Errorf("Current() = %q, want %q", w.Current(), StateSubmitting)
	}
}

// TestSubmitRejectsUnknownSection checks catalog membership.
func TestSubmitRejectsUnknownSection(t *testing.T) {
	w, _ := Resume(StateReviewingAndConfirming)
	draft := validDraft()
	draft.SelectedSections = []string{"intro", "sauna"}

	err := w.TransitionTo(StateSubmitting, draft)
	var te *TransitionError
	if !errors.As(err, &te) || te.Code != CodeValidation {
		t.Fatalf("unknown section must fail validation, got: %v", err)
	}
}

// TestBackwardTransitions checks that going back never validates.
func TestBackwardTransitions(t *testing.T) {
	empty := &model.HandbookDraft{} // fails every guard

	w, _ := Resume(StateReviewingAndConfirming)
	if err := w.TransitionTo(StateCollectingContentChoices, empty); err != nil {
		t.Fatalf("review → content backward transition rejected: %v", err)
	}
	if err := w.TransitionTo(StateCollectingBasicInfo, empty); err != nil {
		t.Fatalf("content → basic backward transition rejected: %v", err)
	}
}

// TestTerminalAndRetry checks the submitting outcomes.
func TestTerminalAndRetry(t *testing.T) {
	draft := validDraft()

	w, _ := Resume(StateSubmitting)
	if err := w.TransitionTo(StateSubmitted, draft); err != nil {
		t.Fatalf("submitting → submitted: %v", err)
	}
	if err := w.TransitionTo(StateSubmitting, draft); err == nil {
		t.Error("submitted is terminal, retry must be rejected")
	}

	// Failure path allows a manual retry.
	w2, _ := Resume(StateSubmitting)
	if err := w2.TransitionTo(StateSubmissionFailed, draft); err != nil {
		t.Fatalf("submitting → submission_failed: %v", err)
	}
	if err := w2.TransitionTo(StateSubmitting, draft); err != nil {
		t.Fatalf("submission_failed → submitting retry rejected: %v", err)
	}
}

// TestInvalidTransitionSkipsStates checks that states cannot be skipped.
func TestInvalidTransitionSkipsStates(t *testing.T) {
	w := New()

	err := w.TransitionTo(StateSubmitting, validDraft())
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransitionError, got %v", err)
	}
	if te.Code != CodeInvalidTransition {
		t.Errorf("Code = %q, want %q", te.Code, CodeInvalidTransition)
	}
}

func TestParseState(t *testing.T) {
	if _, err := ParseState("collecting_basic_info"); err != nil {
		t.Errorf("ParseState(collecting_basic_info): %v", err)
	}
	if _, err := ParseState("done"); err == nil {
		t.Error("ParseState(done): expected error")
	}
}
