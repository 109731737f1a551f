package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"forestwatch-sim/internal/telemetry"
)

const kafkaWriteTimeout = 5 * time.Second

type kafkaProducer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaWriter publishes node rows as JSON messages keyed by node ID.
type KafkaWriter struct {
	producer kafkaProducer
	topic    string
}

// NewKafkaWriter creates a writer publishing to topic on brokers.
func NewKafkaWriter(brokers []string, topic string) (*KafkaWriter, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka: topic is empty")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaWriter{producer: w, topic: topic}, nil
}

// Write publishes a single node row.
func (w *KafkaWriter) Write(row telemetry.NodeRow) error {
	return w.WriteBatch([]telemetry.NodeRow{row})
}

// WriteBatch publishes rows in a single produce call.
func (w *KafkaWriter) WriteBatch(rows []telemetry.NodeRow) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(rows))
	for _, r := range rows {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("kafka: encode %s: %w", r.NodeID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(r.NodeID),
			Value: b,
			Time:  r.Timestamp,
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), kafkaWriteTimeout)
	defer cancel()
	if err := w.producer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka: publish to %s: %w", w.topic, err)
	}
	return nil
}

// Close flushes and closes the producer.
func (w *KafkaWriter) Close() error {
	return w.producer.Close()
}
