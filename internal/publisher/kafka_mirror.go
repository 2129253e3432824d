package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/ostromhub/venue-token-service/config"
)

// KafkaMirror copies processed receipts and calendar updates onto Kafka
// topics for the venue's analytics pipeline. It is strictly a tap: mirror
// failures are logged by callers and never affect relay-side semantics.
type KafkaMirror struct {
	Writers     map[string]*kafka.Writer
	RetryConfig config.RetryConfig
}

func NewKafkaMirror(kafkaURL string, topics []string, retryConfig config.RetryConfig) *KafkaMirror {
	writers := make(map[string]*kafka.Writer)
	if retryConfig.MaxAttempts == 0 {
		retryConfig.MaxAttempts = 5
	}
	if retryConfig.BaseDelay == 0 {
		retryConfig.BaseDelay = 100 * time.Millisecond
	}
	if retryConfig.MaxDelay == 0 {
		retryConfig.MaxDelay = 10 * time.Second
	}

	for _, t := range topics {
		writers[t] = &kafka.Writer{
			Addr:     kafka.TCP(kafkaURL),
			Topic:    t,
			Balancer: &kafka.LeastBytes{},
		}
	}

	return &KafkaMirror{
		Writers:     writers,
		RetryConfig: retryConfig,
	}
}

func (m *KafkaMirror) Publish(ctx context.Context, topic string, message interface{}) error {
	writer, ok := m.Writers[topic]
	if !ok {
		return fmt.Errorf("error no writer configured for topic %s", topic)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("error marshaling message: %w", err)
	}

	return m.publishWithRetry(ctx, writer, kafka.Message{Value: data}, topic)
}

func (m *KafkaMirror) Close() error {
	var firstErr error
	for _, writer := range m.Writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *KafkaMirror) publishWithRetry(ctx context.Context, writer *kafka.Writer, msg kafka.Message, topic string) error {
	var lastErr error

	for attempt := 0; attempt < m.RetryConfig.MaxAttempts; attempt++ {
		err := writer.WriteMessages(ctx, msg)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == m.RetryConfig.MaxAttempts-1 {
			break
		}

		select {
		case <-time.After(m.calculateBackoff(attempt)):
			continue
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}

	return fmt.Errorf("failed to publish message to topic '%s' after %d attempts: %w",
		topic, m.RetryConfig.MaxAttempts, lastErr)
}

func (m *KafkaMirror) calculateBackoff(attempt int) time.Duration {
	delay := time.Duration(math.Pow(2, float64(attempt))) * m.RetryConfig.BaseDelay

	if delay > m.RetryConfig.MaxDelay {
		delay = m.RetryConfig.MaxDelay
	}

	if m.RetryConfig.Jitter {
		jitter := time.Duration(rand.Float64() * float64(delay) * 0.3)
		delay = delay + jitter - time.Duration(float64(delay)*0.15)
	}

	return delay
}
