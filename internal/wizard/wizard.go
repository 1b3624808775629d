// Package wizard models the four-step screening flow as an explicit
// state machine: job description, candidates, results, shortlist.
// Navigation rules live here so interactive front-ends stay thin.
package wizard

import "smarthire/internal/errors"

// Step identifies one screen of the flow
type Step int

const (
	StepJobDescription Step = iota
	StepCandidates
	StepResults
	StepShortlist
)

var stepNames = map[Step]string{
	StepJobDescription: "Job Description",
	StepCandidates:     "Candidates",
	StepResults:        "Results",
	StepShortlist:      "Shortlist",
}

// String returns the display name of the step
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Indicator states for the step header
const (
	IndicatorCompleted = "completed"
	IndicatorActive    = "active"
	IndicatorUpcoming  = "upcoming"
)

// Wizard tracks the current step and what has been satisfied so far
type Wizard struct {
	current        Step
	jobDescription bool
	candidates     bool
	results        bool
}

// New starts a wizard at the job description step
func New() *Wizard {
	return &Wizard{current: StepJobDescription}
}

// Current returns the active step
func (w *Wizard) Current() Step {
	return w.current
}

// SetJobDescriptionReady records whether a job description is present
func (w *Wizard) SetJobDescriptionReady(ready bool) {
	w.jobDescription = ready
}

// SetCandidatesReady records whether any resumes are collected
func (w *Wizard) SetCandidatesReady(ready bool) {
	w.candidates = ready
}

// SetResultsReady records whether a screening run has produced results
func (w *Wizard) SetResultsReady(ready bool) {
	w.results = ready
}

// CanAdvance reports whether the gate for leaving the current step is
// satisfied
func (w *Wizard) CanAdvance() bool {
	switch w.current {
	case StepJobDescription:
		return w.jobDescription
	case StepCandidates:
		return w.candidates
	case StepResults:
		return w.results
	default:
		return false
	}
}

// Next advances to the following step. Fails with a validation error
// naming the unmet gate.
func (w *Wizard) Next() error {
	switch w.current {
	case StepJobDescription:
		if !w.jobDescription {
			return errors.NewValidationError(errors.ErrCodeMissingJobDescription,
				"enter a job description before continuing", nil)
		}
	case StepCandidates:
		if !w.candidates {
			return errors.NewValidationError(errors.ErrCodeNoResumes,
				"add at least one resume before continuing", nil)
		}
	case StepResults:
		if !w.results {
			return errors.NewValidationError(errors.ErrCodeNoResumes,
				"run screening before viewing the shortlist", nil)
		}
	case StepShortlist:
		return nil
	}
	w.current++
	return nil
}

// Back returns to the previous step. Already-entered data is kept, so
// moving back never loses progress.
func (w *Wizard) Back() {
	if w.current > StepJobDescription {
		w.current--
	}
}

// Goto jumps directly to a step if every gate before it is satisfied
func (w *Wizard) Goto(target Step) error {
	if target < StepJobDescription || target > StepShortlist {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat, "unknown step", nil)
	}
	if target > StepJobDescription && !w.jobDescription {
		return errors.NewValidationError(errors.ErrCodeMissingJobDescription,
			"enter a job description first", nil)
	}
	if target > StepCandidates && !w.candidates {
		return errors.NewValidationError(errors.ErrCodeNoResumes,
			"add at least one resume first", nil)
	}
	if target > StepResults && !w.results {
		return errors.NewValidationError(errors.ErrCodeNoResumes,
			"run screening first", nil)
	}
	w.current = target
	return nil
}

// Indicators returns the header state for all four steps in order
func (w *Wizard) Indicators() []string {
	out := make([]string, 0, 4)
	for s := StepJobDescription; s <= StepShortlist; s++ {
		switch {
		case s < w.current:
			out = append(out, IndicatorCompleted)
		case s == w.current:
			out = append(out, IndicatorActive)
		default:
			out = append(out, IndicatorUpcoming)
		}
	}
	return out
}
