package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink publishes status-change events to a Kafka topic. The external
// mailer consumes the topic.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink connects a franz-go producer for the given brokers and topic.
func NewKafkaSink(brokers, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(strings.Split(brokers, ",")...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSink{client: client, topic: topic}, nil
}

// Deliver produces the event keyed by petition ID so per-petition ordering
// is preserved.
func (s *KafkaSink) Deliver(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(strconv.FormatInt(event.PetitionID, 10)),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce notification event: %w", err)
	}
	return nil
}

// Close flushes and shuts down the producer.
func (s *KafkaSink) Close() {
	s.client.Close()
}
