package staff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

const ownerID int64 = 100

var now = time.Date(2025, time.January, 6, 12, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func newFixture(t *testing.T) (*memory.Store, *Service) {
	t.Helper()

	store := memory.NewStore()
	store.AddShop(domain.Shop{ID: 1, OwnerID: ownerID, Name: "Central", Active: true})
	store.AddStaff(domain.StaffMember{
		ID:          7,
		ShopID:      1,
		Name:        "Carlos",
		WorkingDays: domain.NewWorkingDays(time.Monday),
		OpensAt:     types.MustTimeString("08:00"),
		ClosesAt:    types.MustTimeString("18:00"),
		Active:      true,
	})

	svc := NewService(
		store.Staff(),
		store.Shops(),
		store.Appointments(),
		memory.NewTxManager(store),
		logger.NewNop(),
	).WithTimeProvider(fixedTime{now: now})

	return store, svc
}

func addAppointment(t *testing.T, store *memory.Store, startsAt time.Time, status domain.AppointmentStatus) {
	t.Helper()

	_, err := store.Appointments().Create(context.Background(), &domain.Appointment{
		StaffID:         7,
		ServiceID:       1,
		ClientID:        10,
		StartsAt:        startsAt,
		DurationMinutes: 30,
		Status:          status,
	})
	require.NoError(t, err)
}

func TestService_Delete(t *testing.T) {
	store, svc := newFixture(t)

	// Прошедшие и отмененные записи удалению не мешают
	addAppointment(t, store, now.Add(-2*time.Hour), domain.StatusConfirmed)
	addAppointment(t, store, now.Add(2*time.Hour), domain.StatusCancelled)

	require.NoError(t, svc.Delete(context.Background(), 7, ownerID))

	member, err := store.Staff().GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, member.Active)

	err = svc.Delete(context.Background(), 7, ownerID)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestService_Delete_RejectsWithUpcomingAppointments(t *testing.T) {
	store, svc := newFixture(t)
	addAppointment(t, store, now.Add(24*time.Hour), domain.StatusConfirmed)

	err := svc.Delete(context.Background(), 7, ownerID)
	assert.ErrorIs(t, err, ErrStaffHasActiveAppointments)

	member, err := store.Staff().GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, member.Active)
}

func TestService_Delete_Errors(t *testing.T) {
	_, svc := newFixture(t)

	assert.ErrorIs(t, svc.Delete(context.Background(), 7, 55), ErrAccessDenied)
	assert.ErrorIs(t, svc.Delete(context.Background(), 99, ownerID), ErrStaffNotFound)
}

type recordingTx struct {
	*memory.TxManager
	serializable int
}

func (r *recordingTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	r.serializable++
	return r.TxManager.DoSerializable(ctx, fn)
}

func TestService_Delete_RunsSerializable(t *testing.T) {
	store, _ := newFixture(t)
	tx := &recordingTx{TxManager: memory.NewTxManager(store)}
	svc := NewService(store.Staff(), store.Shops(), store.Appointments(), tx, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})

	require.NoError(t, svc.Delete(context.Background(), 7, ownerID))
	assert.Equal(t, 1, tx.serializable)
}
