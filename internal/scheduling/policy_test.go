package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

func TestCheckBookingPolicy(t *testing.T) {
	now := at(monday, "10:00")
	cfg := &domain.BookingConfig{MinBookingNoticeMinutes: 60, AdvanceBookingDays: 7}

	tests := []struct {
		name    string
		cfg     *domain.BookingConfig
		start   time.Time
		wantErr error
	}{
		{name: "now is past", cfg: cfg, start: now, wantErr: ErrStartInPast},
		{name: "yesterday", cfg: cfg, start: now.AddDate(0, 0, -1), wantErr: ErrStartInPast},
		{name: "inside notice", cfg: cfg, start: at(monday, "10:30"), wantErr: ErrNoticeTooShort},
		{name: "exactly notice", cfg: cfg, start: at(monday, "11:00")},
		{name: "last day of horizon", cfg: cfg, start: at(monday.AddDate(0, 0, 7), "17:00")},
		{name: "past horizon", cfg: cfg, start: at(monday.AddDate(0, 0, 8), "08:00"), wantErr: ErrBeyondHorizon},
		{
			name:  "unlimited horizon",
			cfg:   &domain.BookingConfig{},
			start: at(monday.AddDate(1, 0, 0), "08:00"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBookingPolicy(tt.cfg, tt.start, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
