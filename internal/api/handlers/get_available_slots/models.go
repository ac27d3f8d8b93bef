package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BarberBooking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date                   string          `json:"date"`
	StaffID                int64           `json:"staffId"`
	ServiceID              int64           `json:"serviceId"`
	DurationMinutes        int             `json:"durationMinutes"`
	SlotGranularityMinutes int             `json:"slotGranularityMinutes"`
	Slots                  []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"` // HH:MM в часовом поясе салона
	EndTime   string `json:"endTime"`
	StartsAt  string `json:"startsAt"` // RFC3339
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.StartsAt.Format(domain.TimeFormat),
			EndTime:   slot.EndsAt.Format(domain.TimeFormat),
			StartsAt:  slot.StartsAt.Format(time.RFC3339),
			Available: slot.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:                   resp.Date.Format(domain.DateFormat),
		StaffID:                resp.StaffID,
		ServiceID:              resp.ServiceID,
		DurationMinutes:        resp.DurationMinutes,
		SlotGranularityMinutes: resp.SlotGranularityMinutes,
		Slots:                  slots,
	}
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(staffID, serviceID int64, dateStr string) (*getAvailableSlots.Request, error) {
	// Парсим дату
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		StaffID:   staffID,
		ServiceID: serviceID,
		Date:      date,
	}, nil
}
