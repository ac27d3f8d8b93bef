package memory

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// SeedDemo наполняет хранилище демонстрационным салоном для локального запуска:
// салон 1 (владелец - пользователь 1), два мастера и три услуги.
func SeedDemo(s *Store) {
	s.AddShop(domain.Shop{ID: 1, OwnerID: 1, Name: "Barbearia Central", Active: true})

	weekdays := domain.NewWorkingDays(
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
	)
	s.AddStaff(domain.StaffMember{
		ID:          1,
		ShopID:      1,
		Name:        "João",
		WorkingDays: weekdays,
		OpensAt:     types.MustTimeString(domain.DefaultOpensAt),
		ClosesAt:    types.MustTimeString(domain.DefaultClosesAt),
		Active:      true,
	})
	s.AddStaff(domain.StaffMember{
		ID:          2,
		ShopID:      1,
		Name:        "Carlos",
		WorkingDays: domain.NewWorkingDays(time.Tuesday, time.Wednesday, time.Thursday, time.Friday),
		OpensAt:     types.MustTimeString("10:00"),
		ClosesAt:    types.MustTimeString("20:00"),
		Active:      true,
	})

	s.AddService(domain.Service{ID: 1, ShopID: 1, Name: "Corte", DurationMinutes: 30, Price: 40, Active: true})
	s.AddService(domain.Service{ID: 2, ShopID: 1, Name: "Barba", DurationMinutes: 20, Price: 25, Active: true})
	s.AddService(domain.Service{ID: 3, ShopID: 1, Name: "Corte e barba", DurationMinutes: 50, Price: 60, Active: true})
}
