package update_shop_config

import (
	"github.com/m04kA/SMC-BarberBooking/internal/service/config/models"
)

// UpdateShopConfigRequest HTTP request model
// staffId не передан - конфигурация всего салона
type UpdateShopConfigRequest struct {
	StaffID                 *int64 `json:"staffId,omitempty"`
	SlotGranularityMinutes  *int   `json:"slotGranularityMinutes,omitempty"`
	AdvanceBookingDays      *int   `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int   `json:"minBookingNoticeMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateShopConfigRequest) ToServiceRequest(shopID, userID int64) *models.UpsertConfigRequest {
	return &models.UpsertConfigRequest{
		UserID:                  userID,
		ShopID:                  shopID,
		StaffID:                 r.StaffID,
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
	}
}
