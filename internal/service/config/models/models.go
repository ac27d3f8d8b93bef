package models

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Request модели

// GetConfigRequest запрос на получение действующей конфигурации
// StaffID nil означает общую конфигурацию салона
type GetConfigRequest struct {
	ShopID  int64  `json:"shopId"`
	StaffID *int64 `json:"staffId,omitempty"`
}

// UpsertConfigRequest запрос на создание или изменение конфигурации
// Все поля опциональны - не переданные берутся из действующей конфигурации
type UpsertConfigRequest struct {
	UserID                  int64  `json:"userId"`
	ShopID                  int64  `json:"shopId"`
	StaffID                 *int64 `json:"staffId,omitempty"` // NULL = для всех мастеров салона
	SlotGranularityMinutes  *int   `json:"slotGranularityMinutes,omitempty"`
	AdvanceBookingDays      *int   `json:"advanceBookingDays,omitempty"` // 0 = без ограничений
	MinBookingNoticeMinutes *int   `json:"minBookingNoticeMinutes,omitempty"`
}

// DeleteConfigRequest запрос на удаление конфигурации уровня
type DeleteConfigRequest struct {
	UserID  int64  `json:"userId"`
	ShopID  int64  `json:"shopId"`
	StaffID *int64 `json:"staffId,omitempty"`
}

// Response модели

// ConfigResponse ответ с данными конфигурации бронирования
type ConfigResponse struct {
	ID                      int64     `json:"id,omitempty"`
	ShopID                  int64     `json:"shopId"`
	StaffID                 *int64    `json:"staffId,omitempty"`
	Level                   string    `json:"level"` // default, shop, staff
	SlotGranularityMinutes  int       `json:"slotGranularityMinutes"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	CreatedAt               time.Time `json:"createdAt,omitzero"`
	UpdatedAt               time.Time `json:"updatedAt,omitzero"`
}

// ConfigListResponse ответ со списком конфигураций
type ConfigListResponse struct {
	Configs []ConfigResponse `json:"configs"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.BookingConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	return &ConfigResponse{
		ID:                      c.ID,
		ShopID:                  c.ShopID,
		StaffID:                 c.StaffID,
		Level:                   c.Level(),
		SlotGranularityMinutes:  c.SlotGranularityMinutes,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

// FromDomainConfigList конвертирует список domain моделей в DTO
func FromDomainConfigList(configs []*domain.BookingConfig) *ConfigListResponse {
	resp := &ConfigListResponse{
		Configs: make([]ConfigResponse, 0, len(configs)),
	}

	for _, c := range configs {
		if r := FromDomainConfig(c); r != nil {
			resp.Configs = append(resp.Configs, *r)
		}
	}

	return resp
}

// ApplyTo применяет переданные поля к конфигурации
func (r *UpsertConfigRequest) ApplyTo(config *domain.BookingConfig) {
	if r.SlotGranularityMinutes != nil {
		config.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}
	if r.AdvanceBookingDays != nil {
		config.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		config.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
}
