package domain

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is an integration event stored in the same transaction as the
// state change and delivered to the broker later. The topic equals EventType.
type OutboxEvent struct {
	ID            int64
	EventID       string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// AppointmentEventPayload is the JSON body of appointment events.
type AppointmentEventPayload struct {
	AppointmentID   int64             `json:"appointmentId"`
	StaffID         int64             `json:"staffId"`
	ServiceID       int64             `json:"serviceId"`
	ClientID        int64             `json:"clientId"`
	StartsAt        time.Time         `json:"startsAt"`
	EndsAt          time.Time         `json:"endsAt"`
	DurationMinutes int               `json:"durationMinutes"`
	Status          AppointmentStatus `json:"status"`
	OccurredAt      time.Time         `json:"occurredAt"`
}

// NewAppointmentEvent builds an outbox event for an appointment state change.
func NewAppointmentEvent(eventType string, a *Appointment, occurredAt time.Time) (*OutboxEvent, error) {
	payload, err := json.Marshal(AppointmentEventPayload{
		AppointmentID:   a.ID,
		StaffID:         a.StaffID,
		ServiceID:       a.ServiceID,
		ClientID:        a.ClientID,
		StartsAt:        a.StartsAt.UTC(),
		EndsAt:          a.EndsAt().UTC(),
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		OccurredAt:      occurredAt.UTC(),
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:       uuid.NewString(),
		AggregateType: "appointment",
		AggregateID:   strconv.FormatInt(a.ID, 10),
		EventType:     eventType,
		Payload:       payload,
	}, nil
}
