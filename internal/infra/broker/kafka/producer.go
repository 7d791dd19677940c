package kafka

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"

	"staybook/internal/app/policies"
)

// Publisher delivers lifecycle events to Kafka. One topic per event name,
// optionally prefixed; the message key carries the aggregate identity so
// events for one listing stay ordered within a partition.
type Publisher struct {
	producer    sarama.SyncProducer
	topicPrefix string
}

func NewPublisher(brokers []string, topicPrefix string, cfg *sarama.Config) (*Publisher, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Publisher{producer: producer, topicPrefix: topicPrefix}, nil
}

func (p *Publisher) Publish(ctx context.Context, event string, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topicPrefix + event,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	_, _, err = p.producer.SendMessage(msg)
	return err
}

func (p *Publisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}

var _ policies.EventPublisher = (*Publisher)(nil)
