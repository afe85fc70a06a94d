package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInitReturnsProvider(t *testing.T) {
	ctx := context.Background()
	// nothing listens on the endpoint; exporters connect lazily so Init still succeeds
	p, err := Init(ctx, Config{
		ServiceName: "parking-allocator-test",
		Endpoint:    "http://localhost:4318",
		Environment: "test",
	})
	require.NoError(t, err)
	assert.NotNil(t, p.Tracer)
	assert.NotNil(t, p.Meter)
	assert.NotNil(t, p.TracerProvider)
	assert.NotNil(t, p.MeterProvider)
	assert.NotNil(t, p.LoggerProvider)

	shutdownCtx, cancel := context.WithCancel(ctx)
	cancel()
	// exporting to a dead endpoint may fail; Shutdown must still return
	_ = p.Shutdown(shutdownCtx)
}

func TestShutdownSkipsUnsetProviders(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	mp := sdkmetric.NewMeterProvider()
	p := &Provider{
		TracerProvider: tp,
		MeterProvider:  mp,
		Tracer:         tp.Tracer("test"),
		Meter:          mp.Meter("test"),
	}

	require.NoError(t, p.Shutdown(context.Background()))
}
