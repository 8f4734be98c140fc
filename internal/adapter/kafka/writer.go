// Package kafka publishes classified snapshots to a sink topic so
// downstream consumers (alerting, archival) see the same data the
// dashboard renders.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/config"
	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/domain"
)

// Writer produces snapshot events to a Kafka topic.
// It implements feed.SnapshotPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSnapshot serializes every event of a snapshot and publishes the
// batch in a single WriteMessages call. An empty snapshot publishes nothing.
func (w *Writer) PublishSnapshot(ctx context.Context, snap domain.Snapshot) error {
	if len(snap.Events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(snap.Events))
	for i := range snap.Events {
		msg, err := serializeToMessage(snap, snap.Events[i])
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

// sinkEvent is the wire form published per event: the event itself plus its
// marker classification, keyed by event ID for log-compacted consumers.
type sinkEvent struct {
	domain.Event
	Marker domain.MarkerStyle `json:"marker"`
}

// serializeToMessage marshals one snapshot event into a Kafka message.
func serializeToMessage(snap domain.Snapshot, event domain.Event) (kafkago.Message, error) {
	data, err := json.Marshal(sinkEvent{Event: event, Marker: domain.ClassifyMarker(event.Magnitude)})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize quake event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "range", Value: []byte(snap.Range)},
			{Key: "fetched_at", Value: []byte(snap.FetchedAt.Format(time.RFC3339))},
		},
	}, nil
}
