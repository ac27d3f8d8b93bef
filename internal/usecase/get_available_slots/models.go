package get_available_slots

import "time"

// Request модель запроса на получение слотов мастера
type Request struct {
	StaffID   int64     // ID мастера
	ServiceID int64     // ID услуги (определяет длительность)
	Date      time.Time // Календарный день, время игнорируется
}

// Response модель ответа со списком слотов
type Response struct {
	Date                   time.Time
	StaffID                int64
	ServiceID              int64
	DurationMinutes        int
	SlotGranularityMinutes int
	Slots                  []Slot
}

// Slot модель временного слота
type Slot struct {
	StartsAt  time.Time
	EndsAt    time.Time
	Available bool // false - пересекается с существующей записью
}
