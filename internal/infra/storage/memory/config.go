package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/infra/storage/config"
)

// ConfigRepository конфигурация бронирования в памяти
type ConfigRepository struct {
	store *Store
}

// GetConfigWithHierarchy возвращает конфигурацию мастера, иначе общую конфигурацию салона
func (r *ConfigRepository) GetConfigWithHierarchy(_ context.Context, shopID int64, staffID *int64) (*domain.BookingConfig, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if staffID != nil {
		if c := r.find(shopID, staffID); c != nil {
			return c, nil
		}
	}
	if c := r.find(shopID, nil); c != nil {
		return c, nil
	}
	return nil, config.ErrConfigNotFound
}

// Upsert создает или обновляет конфигурацию уровня (ShopID, StaffID)
func (r *ConfigRepository) Upsert(ctx context.Context, cfg *domain.BookingConfig) (*domain.BookingConfig, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if existing := r.find(cfg.ShopID, cfg.StaffID); existing != nil {
		prev := *existing
		cfg.ID = existing.ID
		cfg.CreatedAt = existing.CreatedAt
		cfg.UpdatedAt = now
		s.configs[cfg.ID] = *cfg
		onRollback(ctx, func() { s.configs[prev.ID] = prev })
		return cfg, nil
	}

	s.nextConfigID++
	cfg.ID = s.nextConfigID
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	s.configs[cfg.ID] = *cfg

	id := cfg.ID
	onRollback(ctx, func() { delete(s.configs, id) })

	return cfg, nil
}

// GetAllByShop возвращает все конфигурации салона, общая первой
func (r *ConfigRepository) GetAllByShop(_ context.Context, shopID int64) ([]*domain.BookingConfig, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*domain.BookingConfig, 0)
	for _, c := range r.store.configs {
		if c.ShopID == shopID {
			found := c
			result = append(result, &found)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if (result[i].StaffID == nil) != (result[j].StaffID == nil) {
			return result[i].StaffID == nil
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// DeleteByShopAndStaff удаляет конфигурацию уровня (shopID, staffID)
func (r *ConfigRepository) DeleteByShopAndStaff(ctx context.Context, shopID int64, staffID *int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := r.find(shopID, staffID)
	if existing == nil {
		return config.ErrConfigNotFound
	}

	prev := *existing
	delete(s.configs, prev.ID)
	onRollback(ctx, func() { s.configs[prev.ID] = prev })

	return nil
}

// find вызывается под блокировкой store.mu
func (r *ConfigRepository) find(shopID int64, staffID *int64) *domain.BookingConfig {
	for _, c := range r.store.configs {
		if c.ShopID != shopID {
			continue
		}
		if (staffID == nil) != (c.StaffID == nil) {
			continue
		}
		if staffID != nil && *staffID != *c.StaffID {
			continue
		}
		found := c
		return &found
	}
	return nil
}
