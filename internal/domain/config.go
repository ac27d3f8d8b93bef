package domain

import "time"

// BookingConfig holds booking policy for a shop.
// Supports hierarchical configuration:
// 1. Staff-specific (shop_id, staff_id)
// 2. Shop-wide (shop_id, NULL)
// Without any row the service defaults apply.
type BookingConfig struct {
	ID                      int64
	ShopID                  int64
	StaffID                 *int64 // NULL = config for all staff of the shop
	SlotGranularityMinutes  int
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// IsShopWide returns true if this configuration applies to every staff member
func (c *BookingConfig) IsShopWide() bool {
	return c.StaffID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *BookingConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// SlotGranularity returns the slot step as a duration
func (c *BookingConfig) SlotGranularity() time.Duration {
	return time.Duration(c.SlotGranularityMinutes) * time.Minute
}

// Level returns a short label of the hierarchy level, used in logs
func (c *BookingConfig) Level() string {
	switch {
	case c.ID == 0:
		return "default"
	case c.IsShopWide():
		return "shop"
	default:
		return "staff"
	}
}
