package repository

import (
	"context"

	pkgkafka "MarketBrief/pkg/kafka"
)

// KafkaEventPublisher implements EventPublisher on a Kafka producer bound to
// a single topic.
type KafkaEventPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaEventPublisher(producer *pkgkafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) Publish(ctx context.Context, key []byte, payload interface{}) error {
	return p.producer.Publish(ctx, p.topic, key, payload)
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}
