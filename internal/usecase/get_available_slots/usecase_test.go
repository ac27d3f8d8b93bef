package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

var (
	monday = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC)
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func newUseCase(t *testing.T, now time.Time) (*UseCase, *memory.Store) {
	t.Helper()

	store := memory.NewStore()
	store.AddStaff(domain.StaffMember{
		ID:          7,
		ShopID:      1,
		Name:        "Carlos",
		WorkingDays: domain.NewWorkingDays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday),
		OpensAt:     types.MustTimeString("08:00"),
		ClosesAt:    types.MustTimeString("18:00"),
		Active:      true,
	})
	store.AddService(domain.Service{ID: 1, ShopID: 1, Name: "Corte", DurationMinutes: 30, Active: true})
	store.AddService(domain.Service{ID: 2, ShopID: 1, Name: "Completo", DurationMinutes: 300, Active: true})
	store.AddService(domain.Service{ID: 3, ShopID: 2, Name: "Outro", DurationMinutes: 30, Active: true})

	uc := NewUseCase(
		store.Appointments(),
		store.Staff(),
		store.Services(),
		store.Configs(),
		time.UTC,
		domain.DefaultSlotGranularityMinutes,
		logger.NewNop(),
	).WithTimeProvider(fixedTime{now: now})

	return uc, store
}

func TestExecute_MarksConflictingSlots(t *testing.T) {
	uc, store := newUseCase(t, monday.Add(-time.Hour))
	ctx := context.Background()

	_, err := store.Appointments().Create(ctx, &domain.Appointment{
		StaffID:         7,
		ServiceID:       1,
		ClientID:        10,
		StartsAt:        monday.Add(9 * time.Hour),
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
	})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{StaffID: 7, ServiceID: 1, Date: monday.Add(15 * time.Hour)})
	require.NoError(t, err)

	// 08:00..17:30 с шагом 15 минут
	require.Len(t, resp.Slots, 39)
	assert.Equal(t, 15, resp.SlotGranularityMinutes)

	unavailable := make([]string, 0)
	for _, s := range resp.Slots {
		if !s.Available {
			unavailable = append(unavailable, s.StartsAt.Format(domain.TimeFormat))
		}
	}
	// 08:45 заканчивается в 09:15, 09:00 и 09:15 внутри записи, 09:30 стык
	assert.Equal(t, []string{"08:45", "09:00", "09:15"}, unavailable)
}

func TestExecute_ClosedDayAndLongService(t *testing.T) {
	uc, _ := newUseCase(t, monday.Add(-time.Hour))
	ctx := context.Background()

	resp, err := uc.Execute(ctx, &Request{StaffID: 7, ServiceID: 1, Date: sunday})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)

	resp, err = uc.Execute(ctx, &Request{StaffID: 7, ServiceID: 2, Date: monday})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	last := resp.Slots[len(resp.Slots)-1]
	assert.Equal(t, "13:00", last.StartsAt.Format(domain.TimeFormat))
	assert.Equal(t, "18:00", last.EndsAt.Format(domain.TimeFormat))
}

func TestExecute_PolicyHidesSlots(t *testing.T) {
	// Сейчас понедельник 12:10, минимальное время до записи 30 минут
	uc, store := newUseCase(t, monday.Add(12*time.Hour+10*time.Minute))
	ctx := context.Background()

	_, err := store.Configs().Upsert(ctx, &domain.BookingConfig{
		ShopID:                  1,
		StaffID:                 ptr.Ptr(int64(7)),
		SlotGranularityMinutes:  30,
		MinBookingNoticeMinutes: 30,
	})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{StaffID: 7, ServiceID: 1, Date: monday})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "13:00", resp.Slots[0].StartsAt.Format(domain.TimeFormat))
	assert.Equal(t, 30, resp.SlotGranularityMinutes)
}

func TestExecute_Errors(t *testing.T) {
	uc, _ := newUseCase(t, monday.Add(-time.Hour))
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{name: "invalid staff", req: &Request{ServiceID: 1, Date: monday}, wantErr: ErrInvalidInput},
		{name: "missing date", req: &Request{StaffID: 7, ServiceID: 1}, wantErr: ErrInvalidInput},
		{name: "past date", req: &Request{StaffID: 7, ServiceID: 1, Date: monday.AddDate(0, 0, -2)}, wantErr: ErrInvalidDate},
		{name: "unknown staff", req: &Request{StaffID: 99, ServiceID: 1, Date: monday}, wantErr: ErrStaffNotFound},
		{name: "unknown service", req: &Request{StaffID: 7, ServiceID: 99, Date: monday}, wantErr: ErrServiceNotFound},
		{name: "foreign service", req: &Request{StaffID: 7, ServiceID: 3, Date: monday}, wantErr: ErrServiceNotOffered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
