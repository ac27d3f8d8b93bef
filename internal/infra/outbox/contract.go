package outbox

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Repository источник неопубликованных событий
type Repository interface {
	FetchUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, ids []int64) error
}

// TxManager интерфейс для управления транзакциями
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MessageWriter отправка сообщений в брокер (*kafka.Writer)
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// MetricsRecorder учет опубликованных событий
type MetricsRecorder interface {
	RecordOutboxPublished(eventType string, n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
