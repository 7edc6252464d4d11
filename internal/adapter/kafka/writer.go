// Package kafka publishes site results to a Kafka topic for downstream
// consumers (dashboards, ticket automation).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/severe-weather-monitor/internal/domain"
)

// Publisher produces one message per site result. It implements
// eval.ResultSink.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a producer for the results topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (p *Publisher) Name() string { return "kafka" }

// Deliver serializes and publishes the whole batch in a single WriteMessages
// call. Messages are keyed by site code so per-site ordering holds across
// runs.
func (p *Publisher) Deliver(ctx context.Context, results []domain.SiteResult) error {
	if len(results) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(results))
	for i := range results {
		msg, err := serializeToMessage(results[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish site results: %w", err)
	}
	p.logger.Info("site results published", "count", len(results))
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a SiteResult into a Kafka message.
func serializeToMessage(result domain.SiteResult) (kafkago.Message, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize site result: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(result.SiteCode),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(result.RiskLevel.String())},
			{Key: "evaluated_at", Value: []byte(result.EvaluatedAt.Format(time.RFC3339))},
		},
	}, nil
}
