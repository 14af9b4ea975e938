// Package events carries storefront domain events out of the process.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const TypeOrderPlaced = "order.placed"

type OrderPlaced struct {
	OrderID   string          `json:"order_id"`
	Email     string          `json:"email"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	PlacedAt  time.Time       `json:"placed_at"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
	Close() error
}

// PublishJSON encodes v and publishes it under eventType.
func PublishJSON(ctx context.Context, p Publisher, eventType, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", eventType, err)
	}
	return p.Publish(ctx, eventType, raw, key)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte, string) error { return nil }
func (NopPublisher) Close() error                                          { return nil }

type KafkaPublisher struct {
	writer       *kafka.Writer
	topicByEvent map[string]string
}

func NewKafkaPublisher(brokers []string, topicByEvent map[string]string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			RequiredAcks: kafka.RequireOne,
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
		},
		topicByEvent: topicByEvent,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	topic := eventType
	if mapped, ok := p.topicByEvent[eventType]; ok && mapped != "" {
		topic = mapped
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(partitionKey),
		Value: payload,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Recorder keeps published events in memory. Tests use it in place of a
// broker.
type Recorder struct {
	Events []Recorded
	Err    error
}

type Recorded struct {
	Type    string
	Key     string
	Payload []byte
}

func (r *Recorder) Publish(_ context.Context, eventType string, payload []byte, key string) error {
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, Recorded{Type: eventType, Key: key, Payload: payload})
	return nil
}

func (r *Recorder) Close() error { return nil }
