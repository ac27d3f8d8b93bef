package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 50
)

// Config параметры публикации
type Config struct {
	Brokers      []string
	PollInterval time.Duration
	BatchSize    int
}

// Publisher переносит события из outbox_events в Kafka. Топик совпадает с типом события,
// ключ сообщения - ID записи, поэтому события одной записи попадают в одну партицию.
type Publisher struct {
	repo      Repository
	txManager TxManager
	writer    MessageWriter
	metrics   MetricsRecorder
	logger    Logger

	pollInterval time.Duration
	batchSize    int
}

// NewKafkaWriter создает writer для списка брокеров
func NewKafkaWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// NewPublisher создает publisher
func NewPublisher(repo Repository, txManager TxManager, writer MessageWriter, metrics MetricsRecorder, logger Logger, cfg Config) *Publisher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	return &Publisher{
		repo:         repo,
		txManager:    txManager,
		writer:       writer,
		metrics:      metrics,
		logger:       logger,
		pollInterval: cfg.PollInterval,
		batchSize:    cfg.BatchSize,
	}
}

// Run публикует события до отмены ctx
func (p *Publisher) Run(ctx context.Context) {
	defer func() {
		if err := p.writer.Close(); err != nil {
			p.logger.Warn("Outbox: failed to close writer: %v", err)
		}
	}()

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	p.logger.Info("Outbox publisher started (poll=%s, batch=%d)", p.pollInterval, p.batchSize)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox publisher stopped")
			return
		case <-ticker.C:
			n, err := p.PublishBatch(ctx)
			if err != nil {
				p.logger.Error("Outbox: publish failed: %v", err)
				continue
			}
			if n > 0 {
				p.logger.Info("Outbox: published %d events", n)
			}
		}
	}
}

// PublishBatch отправляет одну пачку событий и отмечает их опубликованными.
// При ошибке отправки пачка остается в outbox и уйдет при следующем опросе (at-least-once).
func (p *Publisher) PublishBatch(ctx context.Context) (int, error) {
	published := 0

	err := p.txManager.Do(ctx, func(ctx context.Context) error {
		events, err := p.repo.FetchUnpublished(ctx, p.batchSize)
		if err != nil {
			return fmt.Errorf("fetch unpublished: %w", err)
		}
		if len(events) == 0 {
			return nil
		}

		msgs := make([]kafka.Message, 0, len(events))
		ids := make([]int64, 0, len(events))
		for _, e := range events {
			msgs = append(msgs, kafka.Message{
				Topic: e.EventType,
				Key:   []byte(e.AggregateID),
				Value: e.Payload,
				Headers: []kafka.Header{
					{Key: "event_id", Value: []byte(e.EventID)},
					{Key: "event_type", Value: []byte(e.EventType)},
				},
			})
			ids = append(ids, e.ID)
		}

		if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
			return fmt.Errorf("write messages: %w", err)
		}

		if err := p.repo.MarkPublished(ctx, ids); err != nil {
			return fmt.Errorf("mark published: %w", err)
		}

		byType := make(map[string]int)
		for _, e := range events {
			byType[e.EventType]++
		}
		for eventType, n := range byType {
			p.metrics.RecordOutboxPublished(eventType, n)
		}
		published = len(events)
		return nil
	})

	return published, err
}

// DiscardWriter writer для запуска без брокера: сообщения отбрасываются
type DiscardWriter struct {
	Logger Logger
}

// WriteMessages логирует и отбрасывает сообщения
func (w DiscardWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		w.Logger.Info("Outbox: kafka disabled, dropping %s key=%s", m.Topic, string(m.Key))
	}
	return nil
}

// Close ничего не делает
func (w DiscardWriter) Close() error {
	return nil
}
