package memory

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// OutboxRepository исходящие события в памяти
type OutboxRepository struct {
	store *Store
}

// Insert сохраняет событие
func (r *OutboxRepository) Insert(ctx context.Context, event *domain.OutboxEvent) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOutboxID++
	event.ID = s.nextOutboxID
	event.CreatedAt = time.Now()
	s.outbox = append(s.outbox, *event)

	id := event.ID
	onRollback(ctx, func() {
		for i := range s.outbox {
			if s.outbox[i].ID == id {
				s.outbox = append(s.outbox[:i], s.outbox[i+1:]...)
				return
			}
		}
	})

	return nil
}

// FetchUnpublished выбирает неопубликованные события по порядку
func (r *OutboxRepository) FetchUnpublished(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := make([]*domain.OutboxEvent, 0, limit)
	for _, e := range r.store.outbox {
		if len(events) == limit {
			break
		}
		if e.PublishedAt == nil {
			event := e
			events = append(events, &event)
		}
	}
	return events, nil
}

// MarkPublished отмечает события отправленными
func (r *OutboxRepository) MarkPublished(_ context.Context, ids []int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now()
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for i := range r.store.outbox {
		if _, ok := set[r.store.outbox[i].ID]; ok {
			r.store.outbox[i].PublishedAt = &now
		}
	}
	return nil
}
