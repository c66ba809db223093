package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

const Topic = "transfer_events"

// KafkaPublisher emits terminal transfer events onto a Kafka topic, keyed by
// transfer id so one transfer's events stay in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    Topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaPublisher) PublishTransferCompleted(ctx context.Context, event TransferCompleted) error {
	return p.publish(ctx, event.TransferID, "transfer.completed", event)
}

func (p *KafkaPublisher) PublishTransferFailed(ctx context.Context, event TransferFailed) error {
	return p.publish(ctx, event.TransferID, "transfer.failed", event)
}

func (p *KafkaPublisher) publish(ctx context.Context, key, eventType string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher stands in when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishTransferCompleted(context.Context, TransferCompleted) error { return nil }

func (NopPublisher) PublishTransferFailed(context.Context, TransferFailed) error { return nil }
