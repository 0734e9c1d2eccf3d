package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/neo-scale-service/internal/config"
	"github.com/couchcryptid/neo-scale-service/internal/scene"
	"github.com/couchcryptid/neo-scale-service/internal/session"
)

// messageWriter is the subset of *kafkago.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes scene descriptors to a Kafka topic.
// It implements pipeline.ScenePublisher.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured scene topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSceneTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishScenes serializes the descriptor of every entry and publishes them in
// a single WriteMessages call. Messages are keyed by record ID so a record's
// scenes land on one partition.
func (w *Writer) PublishScenes(ctx context.Context, fetchDate string, entries []*session.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(entries))
	for i, e := range entries {
		msg, err := serializeToMessage(fetchDate, e.Record.IsPotentiallyHazardous, e.Descriptor())
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish scenes: %w", err)
	}
	w.logger.Debug("scenes published", "fetch_date", fetchDate, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a scene descriptor into a Kafka message.
func serializeToMessage(fetchDate string, hazardous bool, d scene.Descriptor) (kafkago.Message, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize scene descriptor: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(d.NeoID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "fetch_date", Value: []byte(fetchDate)},
			{Key: "hazardous", Value: []byte(strconv.FormatBool(hazardous))},
		},
	}, nil
}
