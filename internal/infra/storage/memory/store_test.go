package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/config"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
)

var monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func newAppointment(staffID int64, hour, minute int) *domain.Appointment {
	return &domain.Appointment{
		StaffID:         staffID,
		ServiceID:       1,
		ClientID:        10,
		StartsAt:        monday.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute),
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
	}
}

func TestTxManager_RollbackOnError(t *testing.T) {
	store := NewStore()
	txm := NewTxManager(store)
	repo := store.Appointments()
	outbox := store.Outbox()
	ctx := context.Background()

	kept, err := repo.Create(ctx, newAppointment(1, 9, 0))
	require.NoError(t, err)

	errBoom := errors.New("boom")
	err = txm.DoSerializable(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, newAppointment(1, 10, 0))
		require.NoError(t, err)

		ok, err := repo.UpdateStatus(ctx, kept.ID, domain.StatusConfirmed, domain.StatusCancelled, nil, time.Now())
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, outbox.Insert(ctx, &domain.OutboxEvent{EventType: domain.EventAppointmentCancelled}))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	list, err := repo.FindByStaffAndDate(ctx, 1, monday)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
	assert.Equal(t, domain.StatusConfirmed, list[0].Status)
	assert.Nil(t, list[0].CancelledAt)

	pending, err := outbox.FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTxManager_CommitKeepsChanges(t *testing.T) {
	store := NewStore()
	txm := NewTxManager(store)
	repo := store.Appointments()
	ctx := context.Background()

	err := txm.Do(ctx, func(ctx context.Context) error {
		_, err := repo.Create(ctx, newAppointment(1, 9, 0))
		return err
	})
	require.NoError(t, err)

	count, err := repo.CountActiveFrom(ctx, 1, monday)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLockStaff_RequiresTransaction(t *testing.T) {
	store := NewStore()
	err := store.Appointments().LockStaff(context.Background(), 1)
	assert.ErrorIs(t, err, appointment.ErrNoTransaction)
}

func TestLockStaff_SerializesSameStaff(t *testing.T) {
	store := NewStore()
	txm := NewTxManager(store)
	repo := store.Appointments()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = txm.DoSerializable(context.Background(), func(ctx context.Context) error {
				if err := repo.LockStaff(ctx, 1); err != nil {
					return err
				}
				// Повторная блокировка в той же транзакции не должна зависнуть
				if err := repo.LockStaff(ctx, 1); err != nil {
					return err
				}
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestLockStaff_RespectsContext(t *testing.T) {
	store := NewStore()
	txm := NewTxManager(store)
	repo := store.Appointments()

	locked := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = txm.Do(context.Background(), func(ctx context.Context) error {
			require.NoError(t, repo.LockStaff(ctx, 1))
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := txm.Do(ctx, func(ctx context.Context) error {
		return repo.LockStaff(ctx, 1)
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Другой мастер не ждет
	err = txm.Do(context.Background(), func(ctx context.Context) error {
		return repo.LockStaff(ctx, 2)
	})
	assert.NoError(t, err)
}

func TestConfigRepository_Hierarchy(t *testing.T) {
	store := NewStore()
	repo := store.Configs()
	ctx := context.Background()

	_, err := repo.GetConfigWithHierarchy(ctx, 1, ptr.Ptr(int64(5)))
	require.ErrorIs(t, err, config.ErrConfigNotFound)

	_, err = repo.Upsert(ctx, &domain.BookingConfig{ShopID: 1, SlotGranularityMinutes: 20})
	require.NoError(t, err)

	got, err := repo.GetConfigWithHierarchy(ctx, 1, ptr.Ptr(int64(5)))
	require.NoError(t, err)
	assert.Equal(t, 20, got.SlotGranularityMinutes)
	assert.True(t, got.IsShopWide())

	_, err = repo.Upsert(ctx, &domain.BookingConfig{ShopID: 1, StaffID: ptr.Ptr(int64(5)), SlotGranularityMinutes: 45})
	require.NoError(t, err)

	got, err = repo.GetConfigWithHierarchy(ctx, 1, ptr.Ptr(int64(5)))
	require.NoError(t, err)
	assert.Equal(t, 45, got.SlotGranularityMinutes)
	assert.Equal(t, "staff", got.Level())

	// Обновление не создает дубликат
	updated, err := repo.Upsert(ctx, &domain.BookingConfig{ShopID: 1, SlotGranularityMinutes: 30})
	require.NoError(t, err)
	shopWide, err := repo.GetConfigWithHierarchy(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, updated.ID, shopWide.ID)
	assert.Equal(t, 30, shopWide.SlotGranularityMinutes)
}
