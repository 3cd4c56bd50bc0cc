package kafka

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keerthana22gh/pg-management-system/pkg/config"
)

func TestNewEvent(t *testing.T) {
	ev, err := NewEvent("tenant.onboarded", map[string]any{"tenant_id": 7})
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "tenant.onboarded", ev.Type)
	assert.False(t, ev.OccurredAt.IsZero())

	var payload map[string]int
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, 7, payload["tenant_id"])
}

func TestNewEvent_BadPayload(t *testing.T) {
	_, err := NewEvent("x", make(chan int))
	assert.Error(t, err)
}

func TestNewProducer_RequiresBrokers(t *testing.T) {
	_, err := NewProducer(&ProducerConfig{})
	assert.Error(t, err)

	_, err = NewProducer(nil)
	assert.Error(t, err)
}

func TestProducer_Topic(t *testing.T) {
	p, err := NewProducer(FromConfig(config.KafkaConfig{
		Brokers:     []string{"localhost:9092"},
		ClientID:    "test",
		TopicPrefix: "pgms.",
	}))
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, "pgms.payment.submitted", p.Topic("payment.submitted"))
}

func TestNoopPublisher(t *testing.T) {
	var pub Publisher = NoopPublisher{}
	ev, err := NewEvent("x", nil)
	require.NoError(t, err)
	assert.NoError(t, pub.Publish(context.Background(), "k", ev))
	pub.Close()
}

func TestProducer_Integration(t *testing.T) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=true to run")
	}

	brokers := os.Getenv("TEST_KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}

	p, err := NewProducer(&ProducerConfig{Brokers: []string{brokers}, ClientID: "pgms-test", TopicPrefix: "pgms.test."})
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()
	require.NoError(t, p.Ping(ctx))

	ev, err := NewEvent("ping", map[string]string{"hello": "world"})
	require.NoError(t, err)
	assert.NoError(t, p.Publish(ctx, "k", ev))
}
