package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	tournament_out "github.com/padel-api/padel-api/pkg/domain/tournament/ports/out"
)

// KafkaPublisher delivers domain events to a single topic, keyed by
// tournament id so consumers see one tournament's events in order.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event tournament_out.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.TournamentID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "event published", "event_type", event.Type, "tournament_id", event.TournamentID)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ tournament_out.EventPublisher = (*KafkaPublisher)(nil)
