package config

import (
	"context"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// ConfigRepository интерфейс репозитория конфигурации бронирования
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, shopID int64, staffID *int64) (*domain.BookingConfig, error)
	GetAllByShop(ctx context.Context, shopID int64) ([]*domain.BookingConfig, error)
	Upsert(ctx context.Context, config *domain.BookingConfig) (*domain.BookingConfig, error)
	DeleteByShopAndStaff(ctx context.Context, shopID int64, staffID *int64) error
}

// ShopRepository интерфейс справочника салонов
type ShopRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Shop, error)
}

// StaffRepository интерфейс справочника мастеров
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
