package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/cineshelf/cineshelf/pkg/logger"
)

// Publisher wraps a Kafka sync producer. A nil *Publisher is valid and
// drops every event, so the service runs without a broker.
type Publisher struct {
	producer sarama.SyncProducer
	brokers  []string
}

// NewPublisher creates a Kafka publisher.
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return &Publisher{producer: producer, brokers: brokers}, nil
}

// PublishActivity publishes an activity event. Errors are logged, not
// returned: event delivery never fails the originating request.
func (p *Publisher) PublishActivity(ctx context.Context, event ActivityEvent) {
	if p == nil {
		return
	}

	event.EventID = uuid.NewString()
	event.Timestamp = time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error(ctx).Err(err).Msg("failed to marshal activity event")
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: TopicActivity,
		Key:   sarama.StringEncoder(event.EventType),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType)},
			{Key: []byte("event_id"), Value: []byte(event.EventID)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		logger.Error(ctx).Err(err).Str("event_type", event.EventType).Msg("failed to publish event")
		return
	}

	logger.Info(ctx).
		Str("event_type", event.EventType).
		Str("event_id", event.EventID).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event published")
}

// Close shuts down the producer.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
