package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/ptr"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

const (
	ownerID    int64 = 100
	clientID   int64 = 10
	strangerID int64 = 55
)

var monday = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type outcomes map[string]int

func (o outcomes) RecordAppointmentOutcome(outcome string) { o[outcome]++ }

type fixture struct {
	store    *memory.Store
	outcomes outcomes
	svc      *Service
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	store := memory.NewStore()
	store.AddShop(domain.Shop{ID: 1, OwnerID: ownerID, Name: "Central", Active: true})
	store.AddStaff(domain.StaffMember{
		ID:          7,
		ShopID:      1,
		Name:        "Carlos",
		WorkingDays: domain.NewWorkingDays(time.Monday, time.Tuesday),
		OpensAt:     types.MustTimeString("08:00"),
		ClosesAt:    types.MustTimeString("18:00"),
		Active:      true,
	})

	rec := outcomes{}
	svc := NewService(
		store.Appointments(),
		store.Staff(),
		store.Shops(),
		store.Outbox(),
		memory.NewTxManager(store),
		rec,
		logger.NewNop(),
	).WithTimeProvider(fixedTime{now: now})

	return &fixture{store: store, outcomes: rec, svc: svc}
}

func (f *fixture) book(t *testing.T, hour int) *domain.Appointment {
	t.Helper()

	appt, err := f.store.Appointments().Create(context.Background(), &domain.Appointment{
		StaffID:         7,
		ServiceID:       1,
		ClientID:        clientID,
		StartsAt:        monday.Add(time.Duration(hour) * time.Hour),
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
	})
	require.NoError(t, err)
	return appt
}

func (f *fixture) outboxTypes(t *testing.T) []string {
	t.Helper()

	events, err := f.store.Outbox().FetchUnpublished(context.Background(), 100)
	require.NoError(t, err)

	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, e.EventType)
	}
	return names
}

func TestService_Cancel(t *testing.T) {
	f := newFixture(t, monday.Add(8*time.Hour))
	appt := f.book(t, 10)

	resp, err := f.svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{
		UserID:             clientID,
		CancellationReason: ptr.Ptr("doente"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, "doente", *resp.CancellationReason)
	assert.Equal(t, []string{domain.EventAppointmentCancelled}, f.outboxTypes(t))
	assert.Equal(t, 1, f.outcomes[string(domain.StatusCancelled)])

	t.Run("second cancel is rejected and changes nothing", func(t *testing.T) {
		_, err := f.svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{UserID: clientID})

		var transitionErr *scheduling.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, domain.StatusCancelled, transitionErr.From)
		assert.Equal(t, domain.StatusCancelled, transitionErr.To)

		stored, err := f.store.Appointments().GetByID(context.Background(), appt.ID)
		require.NoError(t, err)
		assert.Equal(t, "doente", *stored.CancellationReason)
		assert.Len(t, f.outboxTypes(t), 1)
	})
}

func TestService_Cancel_ByOwner(t *testing.T) {
	f := newFixture(t, monday.Add(8*time.Hour))
	appt := f.book(t, 10)

	resp, err := f.svc.Cancel(context.Background(), appt.ID, &models.CancelAppointmentRequest{UserID: ownerID})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

func TestService_Cancel_Errors(t *testing.T) {
	f := newFixture(t, monday.Add(8*time.Hour))
	appt := f.book(t, 10)

	long := make([]rune, domain.MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name    string
		id      int64
		req     *models.CancelAppointmentRequest
		wantErr error
	}{
		{
			name:    "stranger",
			id:      appt.ID,
			req:     &models.CancelAppointmentRequest{UserID: strangerID},
			wantErr: ErrAccessDenied,
		},
		{
			name:    "unknown appointment",
			id:      999,
			req:     &models.CancelAppointmentRequest{UserID: clientID},
			wantErr: ErrAppointmentNotFound,
		},
		{
			name:    "reason too long",
			id:      appt.ID,
			req:     &models.CancelAppointmentRequest{UserID: clientID, CancellationReason: ptr.Ptr(string(long))},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Cancel(context.Background(), tt.id, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, err := f.store.Appointments().GetByID(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Empty(t, f.outboxTypes(t))
}

func TestService_Complete(t *testing.T) {
	f := newFixture(t, monday.Add(11*time.Hour))
	started := f.book(t, 10)
	upcoming := f.book(t, 15)

	t.Run("owner completes a started appointment", func(t *testing.T) {
		resp, err := f.svc.Complete(context.Background(), started.ID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusCompleted), resp.Status)
		assert.NotNil(t, resp.CompletedAt)
		assert.Equal(t, []string{domain.EventAppointmentCompleted}, f.outboxTypes(t))
	})

	t.Run("completed appointment cannot be cancelled", func(t *testing.T) {
		_, err := f.svc.Cancel(context.Background(), started.ID, &models.CancelAppointmentRequest{UserID: clientID})
		assert.ErrorIs(t, err, scheduling.ErrInvalidTransition)
	})

	t.Run("premature completion", func(t *testing.T) {
		_, err := f.svc.Complete(context.Background(), upcoming.ID, ownerID)
		assert.ErrorIs(t, err, scheduling.ErrPrematureCompletion)

		stored, err := f.store.Appointments().GetByID(context.Background(), upcoming.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, stored.Status)
	})

	t.Run("client cannot complete", func(t *testing.T) {
		_, err := f.svc.Complete(context.Background(), upcoming.ID, clientID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_Complete_CancelledUpcoming(t *testing.T) {
	f := newFixture(t, monday.Add(11*time.Hour))
	upcoming := f.book(t, 15)

	_, err := f.svc.Cancel(context.Background(), upcoming.ID, &models.CancelAppointmentRequest{UserID: clientID})
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), upcoming.ID, ownerID)

	var transitionErr *scheduling.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusCancelled, transitionErr.From)
	assert.Equal(t, domain.StatusCompleted, transitionErr.To)
	assert.NotErrorIs(t, err, scheduling.ErrPrematureCompletion)
	assert.Equal(t, []string{domain.EventAppointmentCancelled}, f.outboxTypes(t))
}

func TestService_GetByID(t *testing.T) {
	f := newFixture(t, monday)
	appt := f.book(t, 10)

	for _, userID := range []int64{clientID, ownerID} {
		resp, err := f.svc.GetByID(context.Background(), appt.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, appt.ID, resp.ID)
		assert.Equal(t, appt.StartsAt.Add(30*time.Minute), resp.EndsAt)
	}

	_, err := f.svc.GetByID(context.Background(), appt.ID, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), 404, clientID)
	assert.True(t, errors.Is(err, scheduling.ErrNotFound))
}

func TestService_GetStaffAppointments(t *testing.T) {
	f := newFixture(t, monday.Add(8*time.Hour))
	first := f.book(t, 9)
	second := f.book(t, 11)
	f.book(t, 24+10)

	_, err := f.svc.Cancel(context.Background(), second.ID, &models.CancelAppointmentRequest{UserID: clientID})
	require.NoError(t, err)

	t.Run("one day without cancelled", func(t *testing.T) {
		resp, err := f.svc.GetStaffAppointments(context.Background(), &models.GetStaffAppointmentsRequest{
			UserID:  ownerID,
			StaffID: 7,
			Date:    &monday,
		})
		require.NoError(t, err)
		require.Len(t, resp.Appointments, 1)
		assert.Equal(t, first.ID, resp.Appointments[0].ID)
	})

	t.Run("include cancelled", func(t *testing.T) {
		resp, err := f.svc.GetStaffAppointments(context.Background(), &models.GetStaffAppointmentsRequest{
			UserID:           ownerID,
			StaffID:          7,
			Date:             &monday,
			IncludeCancelled: true,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 2)
	})

	t.Run("all days", func(t *testing.T) {
		resp, err := f.svc.GetStaffAppointments(context.Background(), &models.GetStaffAppointmentsRequest{
			UserID:  ownerID,
			StaffID: 7,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 2)
	})

	t.Run("not the owner", func(t *testing.T) {
		_, err := f.svc.GetStaffAppointments(context.Background(), &models.GetStaffAppointmentsRequest{
			UserID:  clientID,
			StaffID: 7,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown staff", func(t *testing.T) {
		_, err := f.svc.GetStaffAppointments(context.Background(), &models.GetStaffAppointmentsRequest{
			UserID:  ownerID,
			StaffID: 99,
		})
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := f.svc.GetStaffAppointments(context.Background(), &models.GetStaffAppointmentsRequest{
			UserID:  ownerID,
			StaffID: 7,
			Status:  ptr.Ptr("pending"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_GetClientAppointments(t *testing.T) {
	f := newFixture(t, monday.Add(8*time.Hour))
	f.book(t, 9)
	cancelled := f.book(t, 11)

	_, err := f.svc.Cancel(context.Background(), cancelled.ID, &models.CancelAppointmentRequest{UserID: clientID})
	require.NoError(t, err)

	resp, err := f.svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{UserID: clientID})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 2)
	assert.Equal(t, cancelled.ID, resp.Appointments[0].ID, "newest first")

	resp, err = f.svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{
		UserID: clientID,
		Status: ptr.Ptr(string(domain.StatusCancelled)),
	})
	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)

	resp, err = f.svc.GetClientAppointments(context.Background(), &models.GetClientAppointmentsRequest{UserID: strangerID})
	require.NoError(t, err)
	assert.Empty(t, resp.Appointments)
}
