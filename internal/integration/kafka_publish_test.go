//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/adapter/kafka"
	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/config"
	"github.com/SpringMan-Sonic/Earthquake-Visualizer/internal/domain"
)

const testSinkTopic = "test-classified-quake-events"

const rawDayFeed = `{
  "type": "FeatureCollection",
  "features": [
    {"id": "us7000aaaa", "properties": {"mag": 6.2, "place": "south of Fiji", "time": 1714143000000},
     "geometry": {"coordinates": [178.1, -24.7, 540.0]}},
    {"id": "us7000bbbb", "properties": {"mag": 3.4, "place": "central Alaska", "time": 1714143060000},
     "geometry": {"coordinates": [-150.2, 63.1, 10.0]}},
    {"id": "nc1234", "properties": {"mag": null, "place": "NW of The Geysers, CA", "time": 1714143120000},
     "geometry": {"coordinates": [-122.83, 38.82, 2.1]}}
  ]
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka broker in a container and returns
// its bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID(fmt.Sprintf("quakewatch-test-%d", time.Now().UnixNano())),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "start kafka container")

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a topic via the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// sinkMessage holds a deserialized message read from the sink topic.
type sinkMessage struct {
	Event   domain.Event
	Marker  domain.MarkerStyle
	Key     string
	Headers map[string]string
}

func readSink(ctx context.Context, t *testing.T, consumer *kafkago.Reader) sinkMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from sink topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}

	var payload struct {
		domain.Event
		Marker domain.MarkerStyle `json:"marker"`
	}
	require.NoError(t, json.Unmarshal(msg.Value, &payload), "unmarshal sink message")

	return sinkMessage{
		Event:   payload.Event,
		Marker:  payload.Marker,
		Key:     string(msg.Key),
		Headers: headers,
	}
}

// TestSnapshotPublishEndToEnd verifies that a classified snapshot round-trips
// through real Kafka: one message per event, keyed by event ID, with range
// and fetched_at headers and the marker classification embedded.
func TestSnapshotPublishEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testSinkTopic,
	}

	events, skipped, err := domain.ParseFeedPayload([]byte(rawDayFeed))
	require.NoError(t, err)
	require.Zero(t, skipped)
	require.Len(t, events, 3)

	snap := domain.BuildSnapshot(domain.RangeDay, 1, events)

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishSnapshot(ctx, snap))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-sink-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	received := make(map[string]sinkMessage, len(events))
	for len(received) < len(events) {
		sm := readSink(ctx, t, consumer)
		received[sm.Key] = sm

		assert.Equal(t, "day", sm.Headers["range"])
		require.Contains(t, sm.Headers, "fetched_at")
		_, err := time.Parse(time.RFC3339, sm.Headers["fetched_at"])
		assert.NoError(t, err, "fetched_at should be valid RFC3339")
	}

	// 6.2 → red marker, 24.8px.
	major := received["us7000aaaa"]
	require.NotNil(t, major.Event.Magnitude)
	assert.Equal(t, 6.2, *major.Event.Magnitude)
	assert.Equal(t, domain.ColorRed, major.Marker.Color)
	assert.InDelta(t, 24.8, major.Marker.SizePx, 1e-9)
	assert.Equal(t, "south of Fiji", major.Event.Place)

	// 3.4 → orange marker, 13.6px.
	moderate := received["us7000bbbb"]
	assert.Equal(t, domain.ColorOrange, moderate.Marker.Color)
	assert.InDelta(t, 13.6, moderate.Marker.SizePx, 1e-9)

	// Absent magnitude: absence survives the wire, marker uses the
	// classifier default of 1 (green, 8px floor).
	unmeasured := received["nc1234"]
	assert.Nil(t, unmeasured.Event.Magnitude)
	assert.Equal(t, domain.ColorGreen, unmeasured.Marker.Color)
	assert.Equal(t, 8.0, unmeasured.Marker.SizePx)
}

// TestPublishEmptySnapshot verifies that an empty feed window publishes
// nothing rather than an empty batch.
func TestPublishEmptySnapshot(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testSinkTopic,
	}

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	snap := domain.BuildSnapshot(domain.RangeMonth, 1, nil)
	require.NoError(t, writer.PublishSnapshot(ctx, snap))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-empty-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err := consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no messages for an empty snapshot")
}
