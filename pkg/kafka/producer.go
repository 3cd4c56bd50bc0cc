package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/Keerthana22gh/pg-management-system/pkg/config"
)

// Event is the envelope written to every topic
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEvent wraps payload in an Event with a fresh id
func NewEvent(eventType string, payload any) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}

// Publisher publishes domain events keyed by an aggregate id
type Publisher interface {
	Publish(ctx context.Context, key string, event *Event) error
	Close()
}

// ProducerConfig holds producer settings
type ProducerConfig struct {
	Brokers      []string
	ClientID     string
	TopicPrefix  string
	WriteTimeout time.Duration
}

// FromConfig builds a ProducerConfig from the application Kafka settings
func FromConfig(c config.KafkaConfig) *ProducerConfig {
	return &ProducerConfig{
		Brokers:      c.Brokers,
		ClientID:     c.ClientID,
		TopicPrefix:  c.TopicPrefix,
		WriteTimeout: 5 * time.Second,
	}
}

// Producer writes events with franz-go, one topic per event type
type Producer struct {
	client *kgo.Client
	cfg    *ProducerConfig
}

// NewProducer creates a producer. The connection is established lazily by
// franz-go; Ping verifies reachability.
func NewProducer(cfg *ProducerConfig) (*Producer, error) {
	if cfg == nil || len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.RecordRetries(3),
		kgo.AllowAutoTopicCreation(),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}
	if cfg.WriteTimeout > 0 {
		opts = append(opts, kgo.ProduceRequestTimeout(cfg.WriteTimeout))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &Producer{client: client, cfg: cfg}, nil
}

// Topic returns the topic an event type is written to
func (p *Producer) Topic(eventType string) string {
	return p.cfg.TopicPrefix + eventType
}

// Publish writes event synchronously
func (p *Producer) Publish(ctx context.Context, key string, event *Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.Topic(event.Type),
		Key:   []byte(key),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce %s: %w", event.Type, err)
	}
	return nil
}

// Ping checks that at least one broker answers
func (p *Producer) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Close flushes pending records and closes the client
func (p *Producer) Close() {
	p.client.Close()
}

// NoopPublisher drops events. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, *Event) error { return nil }

func (NoopPublisher) Close() {}
