package domain

import apperrors "exlog/internal/platform/errors"

type IntakeState string

const (
	StateAwaitingLocation  IntakeState = "awaiting_location"
	StateAwaitingFormInput IntakeState = "awaiting_form_input"
	StateValidating        IntakeState = "validating"
	StateRejected          IntakeState = "rejected"
	StateCommitted         IntakeState = "committed"
)

// Intake tracks the "new record" workflow. Rejected and Committed are
// terminal for one attempt: a rejection falls back to form input with the
// pin kept, a commit falls back to waiting for a new pin.
type Intake struct {
	state  IntakeState
	last   IntakeState
	coords Coordinates
}

func NewIntake() *Intake {
	return &Intake{state: StateAwaitingLocation}
}

func (i *Intake) State() IntakeState { return i.state }

// Last is the outcome of the most recent attempt, or "" before any.
func (i *Intake) Last() IntakeState { return i.last }

func (i *Intake) Location() (Coordinates, bool) {
	if i.state == StateAwaitingLocation {
		return Coordinates{}, false
	}
	return i.coords, true
}

// Pick stores a map pin and opens the form. A new pin replaces the old one.
func (i *Intake) Pick(c Coordinates) error {
	if !finite(c.Lat) || !finite(c.Lng) {
		return &ValidationError{Field: "coords", Reason: "must be finite"}
	}
	if i.state == StateValidating {
		return apperrors.ErrInvalidInput
	}
	i.coords = c
	i.state = StateAwaitingFormInput
	return nil
}

// Begin moves a submitted form into validation.
func (i *Intake) Begin() (Coordinates, error) {
	if i.state != StateAwaitingFormInput {
		return Coordinates{}, apperrors.ErrNoLocation
	}
	i.state = StateValidating
	return i.coords, nil
}

func (i *Intake) Reject() {
	i.last = StateRejected
	i.state = StateAwaitingFormInput
}

func (i *Intake) Commit() {
	i.last = StateCommitted
	i.state = StateAwaitingLocation
	i.coords = Coordinates{}
}

// Abort returns to form input after a failure that is not the user's fault.
func (i *Intake) Abort() {
	if i.state == StateValidating {
		i.state = StateAwaitingFormInput
	}
}

// Cancel drops the pin.
func (i *Intake) Cancel() {
	i.state = StateAwaitingLocation
	i.coords = Coordinates{}
}
