package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/appointment"
)

// AppointmentRepository записи к мастерам в памяти
type AppointmentRepository struct {
	store *Store
}

// Create сохраняет запись и присваивает ей ID
func (r *AppointmentRepository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAppointmentID++
	now := time.Now()
	appt.ID = s.nextAppointmentID
	appt.CreatedAt = now
	appt.UpdatedAt = now
	s.appointments[appt.ID] = *appt

	id := appt.ID
	onRollback(ctx, func() { delete(s.appointments, id) })

	return appt, nil
}

// GetByID получает запись по ID
func (r *AppointmentRepository) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	appt, ok := r.store.appointments[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	return &appt, nil
}

// FindByStaffAndDate возвращает не отменённые записи мастера за календарный день day
func (r *AppointmentRepository) FindByStaffAndDate(ctx context.Context, staffID int64, day time.Time) ([]*domain.Appointment, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	return r.ListByStaff(ctx, domain.StaffAppointmentsFilter{
		StaffID: staffID,
		From:    from,
		To:      from.AddDate(0, 0, 1),
	})
}

// ListByStaff получает записи мастера по фильтру, по возрастанию времени начала
func (r *AppointmentRepository) ListByStaff(_ context.Context, filter domain.StaffAppointmentsFilter) ([]*domain.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, appt := range r.store.appointments {
		if appt.StaffID != filter.StaffID {
			continue
		}
		if !filter.From.IsZero() && appt.StartsAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !appt.StartsAt.Before(filter.To) {
			continue
		}
		if filter.Status != nil {
			if appt.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeCancelled && appt.Status == domain.StatusCancelled {
			continue
		}
		a := appt
		result = append(result, &a)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartsAt.Equal(result[j].StartsAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].StartsAt.Before(result[j].StartsAt)
	})

	return result, nil
}

// ListByClient получает записи клиента, новые первыми
func (r *AppointmentRepository) ListByClient(_ context.Context, clientID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.Appointment, 0)
	for _, appt := range r.store.appointments {
		if appt.ClientID != clientID {
			continue
		}
		if status != nil && appt.Status != *status {
			continue
		}
		a := appt
		result = append(result, &a)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].StartsAt.After(result[j].StartsAt)
	})

	return result, nil
}

// UpdateStatus переводит запись из expected в next, false - если статус уже другой
func (r *AppointmentRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	expected, next domain.AppointmentStatus,
	reason *string,
	at time.Time,
) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok || appt.Status != expected {
		return false, nil
	}

	prev := appt
	appt.Status = next
	appt.UpdatedAt = at
	switch next {
	case domain.StatusCancelled:
		appt.CancelledAt = &at
		appt.CancellationReason = reason
	case domain.StatusCompleted:
		appt.CompletedAt = &at
	}
	s.appointments[id] = appt

	onRollback(ctx, func() { s.appointments[id] = prev })

	return true, nil
}

// CountActiveFrom считает подтверждённые записи мастера, начинающиеся не раньше from
func (r *AppointmentRepository) CountActiveFrom(_ context.Context, staffID int64, from time.Time) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, appt := range r.store.appointments {
		if appt.StaffID == staffID && appt.Status == domain.StatusConfirmed && !appt.StartsAt.Before(from) {
			count++
		}
	}
	return count, nil
}

// LockStaff блокирует мастера до конца транзакции
func (r *AppointmentRepository) LockStaff(ctx context.Context, staffID int64) error {
	t := txFrom(ctx)
	if t == nil {
		return appointment.ErrNoTransaction
	}
	if _, ok := t.held[staffID]; ok {
		return nil
	}

	ch := r.store.staffLock(staffID)
	select {
	case ch <- struct{}{}:
		t.held[staffID] = ch
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
