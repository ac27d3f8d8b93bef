package scheduling

import (
	"fmt"
	"iter"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Hours is a staff working window resolved to minutes since midnight.
type Hours struct {
	Opens  int
	Closes int
}

// ResolveHours validates and converts the working window of a staff member.
func ResolveHours(staff *domain.StaffMember) (Hours, error) {
	if staff == nil {
		return Hours{}, fmt.Errorf("%w: staff is nil", ErrInvariantViolation)
	}
	opens, err := staff.OpensAt.Minutes()
	if err != nil {
		return Hours{}, fmt.Errorf("%w: staff=%d opens_at: %v", ErrInvariantViolation, staff.ID, err)
	}
	closes, err := staff.ClosesAt.Minutes()
	if err != nil {
		return Hours{}, fmt.Errorf("%w: staff=%d closes_at: %v", ErrInvariantViolation, staff.ID, err)
	}
	if !staff.OpensAt.IsBefore(staff.ClosesAt) {
		return Hours{}, fmt.Errorf("%w: staff=%d opens_at %s is not before closes_at %s",
			ErrInvariantViolation, staff.ID, staff.OpensAt, staff.ClosesAt)
	}
	return Hours{Opens: opens, Closes: closes}, nil
}

// Slots yields candidate start times for a service of durationMinutes on date,
// stepping by granularity from the opening time. A slot is yielded only if the
// whole service fits before closing. Times are built from the wall clock on
// date's calendar day in date's location; wall times skipped by a daylight
// saving transition yield nothing. The sequence is finite and can be ranged
// over repeatedly.
//
// Nothing is yielded on a non-working day or when any argument is invalid.
func Slots(staff *domain.StaffMember, durationMinutes int, date time.Time, granularity time.Duration) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if staff == nil || durationMinutes <= 0 || granularity < time.Minute {
			return
		}
		if !staff.WorkingDays.Contains(date.Weekday()) {
			return
		}
		hours, err := ResolveHours(staff)
		if err != nil {
			return
		}

		step := int(granularity / time.Minute)
		y, m, d := date.Date()
		loc := date.Location()

		for minute := hours.Opens; minute+durationMinutes <= hours.Closes; minute += step {
			slot, ok := wallClock(y, m, d, minute, loc)
			if !ok {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// CheckWorkingWindow verifies that [start, start+duration) lies inside the
// working window of start's weekday, interpreted in start's location.
// It returns *OutOfHoursError when it does not.
func CheckWorkingWindow(staff *domain.StaffMember, start time.Time, durationMinutes int) error {
	if durationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvariantViolation, durationMinutes)
	}
	hours, err := ResolveHours(staff)
	if err != nil {
		return err
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	outOfHours := func(reason OutOfHoursReason) error {
		return &OutOfHoursError{StaffID: staff.ID, Start: start, End: end, Reason: reason}
	}

	if !staff.WorkingDays.Contains(start.Weekday()) {
		return outOfHours(ReasonNonWorkingDay)
	}

	y, m, d := start.Date()
	loc := start.Location()
	opens, _ := wallClock(y, m, d, hours.Opens, loc)
	closes, _ := wallClock(y, m, d, hours.Closes, loc)

	if start.Before(opens) {
		return outOfHours(ReasonBeforeOpening)
	}
	if end.After(closes) {
		return outOfHours(ReasonAfterClosing)
	}
	return nil
}

// wallClock returns minute-of-day on the given calendar day in loc.
// ok is false when that wall time does not exist in loc (a DST gap);
// the returned time is then the normalized instant.
func wallClock(y int, m time.Month, d, minute int, loc *time.Location) (time.Time, bool) {
	t := time.Date(y, m, d, minute/60, minute%60, 0, 0, loc)
	return t, t.Hour() == minute/60 && t.Minute() == minute%60
}

// DayBounds returns [00:00, next day 00:00) of t's calendar day in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
