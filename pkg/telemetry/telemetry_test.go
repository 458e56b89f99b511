package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Disabled(t *testing.T) {
	ctx := context.Background()

	// Nil config behaves like disabled.
	tel, err := Init(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, tel)
	assert.NotNil(t, tel.tracer)
	assert.NotNil(t, tel.meter)
	assert.Nil(t, tel.tracerProvider)

	cfg := &Config{
		Enabled:     false,
		ServiceName: "test-service",
	}
	tel, err = Init(ctx, cfg)
	require.NoError(t, err)
	assert.NotNil(t, tel)
	assert.NotNil(t, tel.tracer)
	assert.NotNil(t, tel.meter)
}

func TestShutdown_WithoutInit(t *testing.T) {
	globalTelemetry = nil
	assert.NoError(t, Shutdown(context.Background()))
}

func TestShutdown_Disabled(t *testing.T) {
	_, err := Init(context.Background(), nil)
	require.NoError(t, err)
	assert.NoError(t, Shutdown(context.Background()))
}

func TestStartSpan_Disabled(t *testing.T) {
	_, err := Init(context.Background(), nil)
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "test-span")
	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
	span.End()
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Equal(t, "", GetTraceID(context.Background()))
}

func TestGetMeter_WithoutInit(t *testing.T) {
	globalTelemetry = nil
	assert.NotNil(t, GetMeter())
}
