package propose_appointment

import (
	"time"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/internal/scheduling"
	proposeAppointment "github.com/m04kA/SMC-BarberBooking/internal/usecase/propose_appointment"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

// ProposeAppointmentRequest HTTP request model
type ProposeAppointmentRequest struct {
	StaffID   int64   `json:"staffId"`
	ServiceID int64   `json:"serviceId"`
	Date      string  `json:"date"`      // "2025-10-15"
	StartTime string  `json:"startTime"` // "10:00"
	Notes     *string `json:"notes,omitempty"`
}

// AppointmentResponse HTTP response model
type AppointmentResponse struct {
	ID              int64   `json:"id"`
	StaffID         int64   `json:"staffId"`
	ServiceID       int64   `json:"serviceId"`
	ClientID        int64   `json:"clientId"`
	StartsAt        string  `json:"startsAt"`
	EndsAt          string  `json:"endsAt"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

// ConflictDetails детали конфликта для ответа 409
type ConflictDetails struct {
	ConflictingAppointmentID int64  `json:"conflictingAppointmentId"`
	StaffID                  int64  `json:"staffId"`
	StartsAt                 string `json:"startsAt"`
	EndsAt                   string `json:"endsAt"`
}

// OutOfHoursDetails детали отказа по рабочему времени для ответа 422
type OutOfHoursDetails struct {
	Reason string `json:"reason"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ProposeAppointmentRequest) ToUseCaseRequest(clientID int64, loc *time.Location) (*proposeAppointment.Request, error) {
	// Парсим дату
	date, err := time.ParseInLocation(domain.DateFormat, r.Date, loc)
	if err != nil {
		return nil, errInvalidDate
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	startsAt, err := startTime.On(date, loc)
	if err != nil {
		return nil, errInvalidTime
	}

	return &proposeAppointment.Request{
		ClientID:  clientID,
		StaffID:   r.StaffID,
		ServiceID: r.ServiceID,
		StartsAt:  startsAt,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *proposeAppointment.Response) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              resp.ID,
		StaffID:         resp.StaffID,
		ServiceID:       resp.ServiceID,
		ClientID:        resp.ClientID,
		StartsAt:        resp.StartsAt.Format(time.RFC3339),
		EndsAt:          resp.EndsAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
	}
}

func conflictDetails(err *scheduling.ConflictError) *ConflictDetails {
	return &ConflictDetails{
		ConflictingAppointmentID: err.ConflictingAppointmentID,
		StaffID:                  err.StaffID,
		StartsAt:                 err.Start.Format(time.RFC3339),
		EndsAt:                   err.End.Format(time.RFC3339),
	}
}
