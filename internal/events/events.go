// Package events publishes domain events for downstream consumers. Publishing
// is best effort: failures are logged and never reach the request.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
)

const (
	UserRegistered           = "user.registered"
	ClothingItemCreated      = "clothing_item.created"
	ClothingItemDeleted      = "clothing_item.deleted"
	RecommendationsGenerated = "recommendations.generated"
)

type Event struct {
	Type       string      `json:"type"`
	UserID     int64       `json:"userId"`
	Data       interface{} `json:"data,omitempty"`
	OccurredAt time.Time   `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) {}

// KafkaPublisher sends events to one topic, keyed by user id.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
	now      func() time.Time
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger, now: time.Now}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now().UTC()
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to encode event", "type", event.Type, "error", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.UserID, 10)),
		Value: sarama.ByteEncoder(eventBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(event.Type)},
		},
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		p.logger.Error("Failed to publish event", "type", event.Type, "userId", event.UserID, "error", err)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
