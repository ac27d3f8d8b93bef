package get_staff_appointments

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments/models"
)

// ToServiceRequest создает запрос сервиса из query параметров
// Пустые строки означают отсутствие фильтра
func ToServiceRequest(staffID, userID int64, dateStr, statusStr, includeCancelledStr string, loc *time.Location) (*models.GetStaffAppointmentsRequest, error) {
	req := &models.GetStaffAppointmentsRequest{
		UserID:  userID,
		StaffID: staffID,
	}

	if dateStr != "" {
		date, err := time.ParseInLocation(domain.DateFormat, dateStr, loc)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeCancelledStr != "" {
		include, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, err
		}
		req.IncludeCancelled = include
	}

	return req, nil
}
