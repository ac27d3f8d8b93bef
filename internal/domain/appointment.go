package domain

import "time"

// AppointmentStatus represents the lifecycle state of an appointment.
// "proposed" exists only inside a propose call and is never persisted.
type AppointmentStatus string

const (
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// transitions lists allowed status changes. Terminal statuses have no entry.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// Appointment is a booked service with a staff member.
// DurationMinutes is a snapshot of the service duration at booking time,
// so later catalog edits never move existing appointments.
type Appointment struct {
	ID              int64
	StaffID         int64
	ServiceID       int64
	ClientID        int64
	StartsAt        time.Time
	DurationMinutes int
	Status          AppointmentStatus

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EndsAt returns the exclusive end of the appointment interval.
func (a *Appointment) EndsAt() time.Time {
	return a.StartsAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// IsActive reports whether the appointment occupies its slot.
// Completed appointments still occupy it, only cancelled ones free it.
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// CanTransitionTo reports whether the status change is allowed.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	return a.Status.CanTransitionTo(next)
}

// IsValid reports whether the status is one of the persisted statuses.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether s -> next is an allowed transition.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StaffAppointmentsFilter selects appointments of one staff member
type StaffAppointmentsFilter struct {
	StaffID          int64     // Обязательный параметр
	From             time.Time // Начало периода включительно (zero = без ограничения)
	To               time.Time // Конец периода не включительно (zero = без ограничения)
	Status           *AppointmentStatus
	IncludeCancelled bool
}
