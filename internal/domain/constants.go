package domain

// Default configuration values
const (
	DefaultSlotGranularityMinutes  = 15
	DefaultAdvanceBookingDays      = 0  // 0 = unlimited
	DefaultMinBookingNoticeMinutes = 0
)

// Default working window of a new staff member
const (
	DefaultOpensAt     = "08:00"
	DefaultClosesAt    = "18:00"
	DefaultWorkingDays = "1,2,3,4,5,6"
)

// Business validation constants
const (
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 240
	MinAdvanceBookingDays       = 0
	MaxAdvanceBookingDays       = 365 // 1 year
	MinBookingNoticeMinutes     = 0
	MaxBookingNoticeMinutes     = 10080 // 1 week
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxAgendaDays               = 62
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Outbox event types
const (
	EventAppointmentConfirmed = "appointment.confirmed.v1"
	EventAppointmentCancelled = "appointment.cancelled.v1"
	EventAppointmentCompleted = "appointment.completed.v1"
)

// DefaultBookingConfig returns the configuration used when a shop has none.
func DefaultBookingConfig(shopID int64, granularityMinutes int) *BookingConfig {
	if granularityMinutes <= 0 {
		granularityMinutes = DefaultSlotGranularityMinutes
	}
	return &BookingConfig{
		ShopID:                  shopID,
		SlotGranularityMinutes:  granularityMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
	}
}
