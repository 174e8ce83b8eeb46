// Package notify publishes routed webhook notifications to Kafka for
// downstream consumers. The publisher is only ever driven through passive
// listeners, so a slow broker never delays the HTTP ack.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher writes one message per routed action or command.
type Publisher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

func NewPublisher(brokers []string, topic string, log *zap.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
		log: log,
	}
}

// envelope is the wire format published to the topic.
type envelope struct {
	Key       string `json:"key"`
	Payload   any    `json:"payload"`
	EmittedAt int64  `json:"emitted_at"`
}

// Publish writes the payload under the routing key.
func (p *Publisher) Publish(ctx context.Context, key string, payload any) error {
	value, err := json.Marshal(envelope{
		Key:       key,
		Payload:   payload,
		EmittedAt: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode notification: %v", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %v", err)
	}
	p.log.Debug("published notification", zap.String("key", key))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
