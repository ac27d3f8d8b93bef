package propose_appointment

import "time"

// Request модель запроса на запись к мастеру
type Request struct {
	ClientID  int64     // ID клиента (из X-User-ID)
	StaffID   int64     // ID мастера
	ServiceID int64     // ID услуги
	StartsAt  time.Time // Время начала, с точностью до минуты
	Notes     *string   // Комментарий клиента (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64
	StaffID         int64
	ServiceID       int64
	ClientID        int64
	StartsAt        time.Time
	EndsAt          time.Time
	DurationMinutes int
	Status          string
	ServiceName     string
	Notes           *string
	CreatedAt       time.Time
}
