package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/segmentio/kafka-go"
)

const (
	TopicOrderCreated       = "order-created"
	TopicOrderStatusUpdated = "order-status-updated"
)

var topics = map[Type]string{
	OrderCreated: TopicOrderCreated,
	OrderUpdated: TopicOrderStatusUpdated,
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each event as JSON keyed by order id, so all events
// of one order land on the same partition.
type KafkaPublisher struct {
	writers map[string]messageWriter
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	writers := make(map[string]messageWriter, len(topics))
	for _, topic := range topics {
		writers[topic] = newKafkaWriter(brokers, topic)
	}
	return &KafkaPublisher{writers: writers}
}

func newKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	topic, ok := topics[e.Type]
	if !ok {
		return fmt.Errorf("no topic for event type %q", e.Type)
	}
	value, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(e.OrderID),
		Value: value,
		Time:  e.At,
	}
	if err := p.writers[topic].WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	var result error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close %s writer: %w", topic, err))
		}
	}
	return result
}
