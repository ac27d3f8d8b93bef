package memory

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/shop"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/staff"
)

// StaffRepository мастера в памяти
type StaffRepository struct {
	store *Store
}

// GetByID получает мастера по ID
func (r *StaffRepository) GetByID(_ context.Context, id int64) (*domain.StaffMember, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	member, ok := r.store.staff[id]
	if !ok {
		return nil, staff.ErrStaffNotFound
	}
	return &member, nil
}

// GetByIDForShare перечитывает мастера внутри транзакции.
// Запись мастера в памяти сериализуется через LockStaff, отдельная блокировка строки не нужна.
func (r *StaffRepository) GetByIDForShare(ctx context.Context, id int64) (*domain.StaffMember, error) {
	return r.GetByID(ctx, id)
}

// Deactivate помечает мастера неактивным
func (r *StaffRepository) Deactivate(ctx context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.staff[id]
	if !ok {
		return staff.ErrStaffNotFound
	}
	prev := member
	member.Active = false
	s.staff[id] = member

	onRollback(ctx, func() { s.staff[id] = prev })

	return nil
}

// ShopRepository салоны в памяти
type ShopRepository struct {
	store *Store
}

// GetByID получает салон по ID
func (r *ShopRepository) GetByID(_ context.Context, id int64) (*domain.Shop, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	s, ok := r.store.shops[id]
	if !ok {
		return nil, shop.ErrShopNotFound
	}
	return &s, nil
}

// ServiceRepository каталог услуг в памяти
type ServiceRepository struct {
	store *Store
}

// GetByID получает услугу по ID
func (r *ServiceRepository) GetByID(_ context.Context, id int64) (*domain.Service, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	service, ok := r.store.services[id]
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	return &service, nil
}
