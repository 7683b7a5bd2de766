package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/water-health-alerting/internal/config"
	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// Writer produces alert messages to the sink topic.
// It implements pipeline.AlertPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes one evaluation run's alerts and publishes them in
// a single WriteMessages call. Messages are keyed by village so all alerts
// for one village land on the same partition.
func (w *Writer) PublishBatch(ctx context.Context, batch domain.AlertBatch) error {
	if len(batch.Alerts) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(batch.Alerts))
	for i := range batch.Alerts {
		msg, err := serializeToMessage(batch, batch.Alerts[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one alert into a Kafka message, with batch
// provenance carried in the headers.
func serializeToMessage(batch domain.AlertBatch, alert domain.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.Village),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "rule", Value: []byte(alert.Rule)},
			{Key: "run_id", Value: []byte(batch.RunID)},
			{Key: "generated_at", Value: []byte(batch.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
