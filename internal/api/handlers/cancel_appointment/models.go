package cancel_appointment

import (
	"github.com/m04kA/SMC-BarberBooking/internal/service/appointments/models"
)

// CancelAppointmentRequest HTTP request model, тело запроса опционально
type CancelAppointmentRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelAppointmentRequest) ToServiceRequest(userID int64) *models.CancelAppointmentRequest {
	return &models.CancelAppointmentRequest{
		UserID:             userID,
		CancellationReason: r.CancellationReason,
	}
}
