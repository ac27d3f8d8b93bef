package scheduling

import "github.com/m04kA/SMC-BarberBooking/internal/domain"

// CheckTransition returns *InvalidTransitionError unless a may move to next.
func CheckTransition(a *domain.Appointment, next domain.AppointmentStatus) error {
	if a.CanTransitionTo(next) {
		return nil
	}
	return &InvalidTransitionError{AppointmentID: a.ID, From: a.Status, To: next}
}
