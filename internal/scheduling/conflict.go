package scheduling

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Overlaps reports whether half-open intervals [aStart, aEnd) and [bStart, bEnd) intersect.
// Back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// FirstConflict returns the first appointment in existing that blocks candidate,
// or nil. Only active appointments of the same staff member count, and the
// candidate never conflicts with itself (same non-zero id).
func FirstConflict(candidate *domain.Appointment, existing []*domain.Appointment) (*domain.Appointment, error) {
	if candidate == nil {
		return nil, fmt.Errorf("%w: candidate is nil", ErrInvariantViolation)
	}
	if candidate.StaffID == 0 {
		return nil, fmt.Errorf("%w: candidate has no staff", ErrInvariantViolation)
	}
	if candidate.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: candidate duration must be positive, got %d",
			ErrInvariantViolation, candidate.DurationMinutes)
	}

	start, end := candidate.StartsAt, candidate.EndsAt()

	for _, a := range existing {
		if a == nil || a.StaffID != candidate.StaffID || !a.IsActive() {
			continue
		}
		if candidate.ID != 0 && a.ID == candidate.ID {
			continue
		}
		if a.DurationMinutes <= 0 {
			return nil, fmt.Errorf("%w: appointment=%d has duration %d",
				ErrInvariantViolation, a.ID, a.DurationMinutes)
		}
		if Overlaps(start, end, a.StartsAt, a.EndsAt()) {
			return a, nil
		}
	}

	return nil, nil
}

// HasConflict reports whether any appointment in existing blocks candidate.
func HasConflict(candidate *domain.Appointment, existing []*domain.Appointment) (bool, error) {
	conflict, err := FirstConflict(candidate, existing)
	if err != nil {
		return false, err
	}
	return conflict != nil, nil
}
