package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/irfndi/paragon-ai-go/internal/config"
)

func TestInitTelemetry_Disabled(t *testing.T) {
	provider, err := InitTelemetry(context.Background(), config.TelemetryConfig{Enabled: false})

	require.NoError(t, err)
	_, span := provider.TracerProvider.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()
	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestInitTelemetry_Stdout(t *testing.T) {
	var buf bytes.Buffer
	provider, err := initTelemetry(context.Background(), config.TelemetryConfig{
		Enabled:     true,
		Exporter:    "stdout",
		ServiceName: "paragon-test",
		SampleRate:  1,
	}, &buf)
	require.NoError(t, err)
	assert.Same(t, provider.TracerProvider, otel.GetTracerProvider())

	_, span := GetHTTPTracer().Start(context.Background(), "GET /health")
	assert.True(t, span.IsRecording())
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "GET /health")
	assert.Contains(t, buf.String(), "paragon-test")
}

func TestInitTelemetry_UnknownExporter(t *testing.T) {
	_, err := InitTelemetry(context.Background(), config.TelemetryConfig{Enabled: true, Exporter: "zipkin"})

	assert.EqualError(t, err, `unknown telemetry exporter "zipkin"`)
}

func TestNewSampler(t *testing.T) {
	assert.Contains(t, newSampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, newSampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestProvider_ShutdownNil(t *testing.T) {
	var p *Provider
	assert.NoError(t, p.Shutdown(context.Background()))
}
