package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/u1krsh/EduPay/pkg/logger"
)

// Kafka topics for domain events
const (
	TopicSessionReviewed = "session.reviewed"
	TopicPaymentCreated  = "payment.created"
	TopicPaymentPaid     = "payment.paid"
)

// Event is the envelope published to Kafka
type Event struct {
	EventType string      `json:"event_type"`
	EntityID  string      `json:"entity_id"`
	UserID    string      `json:"user_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ProducerConfig holds configuration for Producer
type ProducerConfig struct {
	Brokers  []string
	ClientID string
}

// Producer publishes domain events to Kafka. A nil Producer is valid and
// drops events, so callers never branch on whether Kafka is configured.
type Producer struct {
	client *kgo.Client
}

// NewProducer creates a Producer and verifies broker connectivity
func NewProducer(ctx context.Context, cfg *ProducerConfig) (*Producer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Kafka: %w", err)
	}

	return &Producer{client: client}, nil
}

// Publish sends an event to the topic, keyed by entity ID. Delivery is
// asynchronous; failures are logged, not returned, so a broker outage never
// fails the request that raised the event.
func (p *Producer) Publish(ctx context.Context, topic string, event *Event) {
	if p == nil || p.client == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	value, err := json.Marshal(event)
	if err != nil {
		logger.Get().Error("failed to marshal event",
			zap.String("topic", topic),
			zap.String("event_type", event.EventType),
			zap.Error(err))
		return
	}

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(event.EntityID),
		Value: value,
	}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			logger.Get().Error("failed to publish event",
				zap.String("topic", topic),
				zap.String("event_type", event.EventType),
				zap.Error(err))
		}
	})
}

// Close flushes pending records and releases the client
func (p *Producer) Close() {
	if p == nil || p.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = p.client.Flush(ctx)
	p.client.Close()
}
