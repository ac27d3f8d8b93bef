package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

var (
	// ErrOutOfHours is returned when an appointment falls outside the staff working window
	ErrOutOfHours = errors.New("scheduling: appointment is outside working hours")

	// ErrConflict is returned when an appointment overlaps an active one of the same staff member
	ErrConflict = errors.New("scheduling: appointment overlaps an existing appointment")

	// ErrInvalidTransition is returned for a status change the state machine does not allow
	ErrInvalidTransition = errors.New("scheduling: invalid status transition")

	// ErrNotFound is returned when a referenced staff member, service or appointment does not exist
	ErrNotFound = errors.New("scheduling: not found")

	// ErrInvariantViolation signals corrupted input (non-positive duration, broken working hours).
	// It is never repaired silently.
	ErrInvariantViolation = errors.New("scheduling: invariant violation")

	// ErrPrematureCompletion is returned when completing an appointment that has not started
	ErrPrematureCompletion = errors.New("scheduling: appointment has not started yet")
)

// OutOfHoursReason explains why a time is outside the working window.
type OutOfHoursReason string

const (
	ReasonNonWorkingDay OutOfHoursReason = "non_working_day"
	ReasonBeforeOpening OutOfHoursReason = "before_opening"
	ReasonAfterClosing  OutOfHoursReason = "after_closing"
)

// OutOfHoursError carries the rejected window.
type OutOfHoursError struct {
	StaffID int64
	Start   time.Time
	End     time.Time
	Reason  OutOfHoursReason
}

func (e *OutOfHoursError) Error() string {
	return fmt.Sprintf("%v: staff=%d start=%s end=%s reason=%s",
		ErrOutOfHours, e.StaffID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.Reason)
}

func (e *OutOfHoursError) Unwrap() error {
	return ErrOutOfHours
}

// ConflictError identifies the appointment that blocks the attempted window.
type ConflictError struct {
	StaffID                  int64
	ConflictingAppointmentID int64
	Start                    time.Time
	End                      time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: staff=%d window=[%s, %s) conflicting_appointment=%d",
		ErrConflict, e.StaffID, e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.ConflictingAppointmentID)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NewConflictError builds a ConflictError for candidate blocked by existing.
func NewConflictError(candidate, existing *domain.Appointment) *ConflictError {
	return &ConflictError{
		StaffID:                  candidate.StaffID,
		ConflictingAppointmentID: existing.ID,
		Start:                    candidate.StartsAt,
		End:                      candidate.EndsAt(),
	}
}

// InvalidTransitionError describes a rejected status change.
type InvalidTransitionError struct {
	AppointmentID int64
	From          domain.AppointmentStatus
	To            domain.AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%v: appointment=%d %s -> %s", ErrInvalidTransition, e.AppointmentID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
