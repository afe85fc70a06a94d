package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		records = append(records, rec)
	}
	return records
}

func TestInfoAddsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "parking-allocator", "test", "info")

	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	Info(ctx, "vehicle parked", slog.Int("slot_number", 1))

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "vehicle parked", rec["msg"])
	assert.Equal(t, "parking-allocator", rec["service"])
	assert.Equal(t, "test", rec["environment"])
	assert.EqualValues(t, 1, rec["slot_number"])
	assert.Equal(t, span.SpanContext().TraceID().String(), rec["traceId"])
	assert.Equal(t, span.SpanContext().SpanID().String(), rec["spanId"])
}

func TestWithoutSpanOmitsTraceContext(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "parking-allocator", "test", "info")

	Warn(context.Background(), "lot full")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.NotContains(t, records[0], "traceId")
	assert.Equal(t, "WARN", records[0]["level"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(&buf, "parking-allocator", "production", "warn")

	Debug(context.Background(), "hidden")
	Info(context.Background(), "hidden")
	Error(context.Background(), "shown")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "shown", records[0]["msg"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("", "development"))
	assert.Equal(t, slog.LevelInfo, parseLevel("", "production"))
	assert.Equal(t, slog.LevelError, parseLevel("ERROR", "development"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning", "production"))
}
