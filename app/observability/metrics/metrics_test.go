package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNilMetricsAreNoop(t *testing.T) {
	var m *AppMetrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordDiscovery(ctx, "ready", time.Second)
		m.RecordSuperseded(ctx)
		m.RecordChatTurn(ctx, "ok", time.Second)
		m.RecordAIError(ctx, "network", "chat")
		require.NoError(t, m.ObserveSessions(nil, nil))
	})
}

func TestInstrumentsRecord(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("test")

	m, err := New(meter)
	require.NoError(t, err)
	require.NoError(t, m.ObserveSessions(meter, func() map[string]int64 {
		return map[string]int64{"chat": 2, "discovery": 1}
	}))

	ctx := context.Background()
	m.RecordDiscovery(ctx, "ready", 120*time.Millisecond)
	m.RecordSuperseded(ctx)
	m.RecordChatTurn(ctx, "failed", time.Second)
	m.RecordAIError(ctx, "schema", "discovery")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]bool{}
	for _, metric := range rm.ScopeMetrics[0].Metrics {
		names[metric.Name] = true
	}
	for _, want := range []string{
		"discovery_requests_total",
		"discovery_duration_seconds",
		"discovery_superseded_total",
		"chat_turns_total",
		"chat_duration_seconds",
		"ai_errors_total",
		"active_sessions",
	} {
		assert.True(t, names[want], want)
	}
}
