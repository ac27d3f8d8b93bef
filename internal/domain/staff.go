package domain

import "github.com/m04kA/SMC-BarberBooking/pkg/types"

// StaffMember is a professional whose time can be booked.
// One working window applies to every working day.
type StaffMember struct {
	ID          int64
	ShopID      int64
	Name        string
	WorkingDays WorkingDays
	OpensAt     types.TimeString
	ClosesAt    types.TimeString
	Active      bool
}

// Shop owns staff members and services. Only the owner may manage them.
type Shop struct {
	ID      int64
	OwnerID int64
	Name    string
	Active  bool
}

// IsOwner reports whether userID owns the shop.
func (s *Shop) IsOwner(userID int64) bool {
	return s != nil && s.OwnerID == userID
}

// Service is an offering of a shop with a fixed duration.
type Service struct {
	ID              int64
	ShopID          int64
	Name            string
	DurationMinutes int
	Price           float64
	Active          bool
}
