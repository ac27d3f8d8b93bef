package get_shop_config

import (
	"strconv"

	"github.com/m04kA/SMC-BarberBooking/internal/service/config/models"
)

// ToServiceRequest формирует запрос к сервису из URL и query параметров
func ToServiceRequest(shopID int64, staffIDStr string) (*models.GetConfigRequest, error) {
	req := &models.GetConfigRequest{
		ShopID:  shopID,
		StaffID: nil, // nil означает общую конфигурацию салона
	}

	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	return req, nil
}
