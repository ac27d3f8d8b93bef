package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

var (
	// ErrStartInPast is returned when the requested start is not in the future
	ErrStartInPast = errors.New("scheduling: start time is in the past")

	// ErrNoticeTooShort is returned when the start is closer than the minimum booking notice
	ErrNoticeTooShort = errors.New("scheduling: booking notice is too short")

	// ErrBeyondHorizon is returned when the start is further ahead than advance booking allows
	ErrBeyondHorizon = errors.New("scheduling: start is beyond the booking horizon")
)

// CheckBookingPolicy verifies the notice and advance-booking rules of cfg for
// a start time, relative to now. The horizon is counted in calendar days of
// start's location: with AdvanceBookingDays = 7 anything up to the end of the
// seventh day after today is allowed.
func CheckBookingPolicy(cfg *domain.BookingConfig, start, now time.Time) error {
	if !start.After(now) {
		return ErrStartInPast
	}

	notice := time.Duration(cfg.MinBookingNoticeMinutes) * time.Minute
	if start.Before(now.Add(notice)) {
		return fmt.Errorf("%w: at least %d minutes required", ErrNoticeTooShort, cfg.MinBookingNoticeMinutes)
	}

	if cfg.HasAdvanceBookingLimit() {
		today, _ := DayBounds(now.In(start.Location()))
		horizon := today.AddDate(0, 0, cfg.AdvanceBookingDays+1)
		if !start.Before(horizon) {
			return fmt.Errorf("%w: at most %d days ahead", ErrBeyondHorizon, cfg.AdvanceBookingDays)
		}
	}

	return nil
}
