package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// A nil *AppMetrics is valid and records nothing.
type AppMetrics struct {
	DiscoveryRequestsTotal   metric.Int64Counter
	DiscoveryDurationSeconds metric.Float64Histogram
	DiscoverySupersededTotal metric.Int64Counter
	ChatTurnsTotal           metric.Int64Counter
	ChatDurationSeconds      metric.Float64Histogram
	AIErrorsTotal            metric.Int64Counter
	ActiveSessions           metric.Int64ObservableGauge
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider, so call it after the
// provider is installed.
func InitAppMetrics() *AppMetrics {
	once.Do(func() {
		m, err := New(otel.GetMeterProvider().Meter("BharatGuide"))
		if err != nil {
			log.Fatalf("Metrics: %v", err)
		}
		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
	return appMetrics
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// New creates every instrument on the given meter.
func New(meter metric.Meter) (*AppMetrics, error) {
	var err error
	m := &AppMetrics{}

	m.DiscoveryRequestsTotal, err = meter.Int64Counter(
		"discovery_requests_total",
		metric.WithDescription("Discovery requests completed, by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.DiscoveryDurationSeconds, err = meter.Float64Histogram(
		"discovery_duration_seconds",
		metric.WithDescription("Duration of discovery requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.DiscoverySupersededTotal, err = meter.Int64Counter(
		"discovery_superseded_total",
		metric.WithDescription("Discovery completions discarded because a newer anchor was selected"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	m.ChatTurnsTotal, err = meter.Int64Counter(
		"chat_turns_total",
		metric.WithDescription("Chat turns completed, by outcome"),
		metric.WithUnit("{turn}"),
	)
	if err != nil {
		return nil, err
	}

	m.ChatDurationSeconds, err = meter.Float64Histogram(
		"chat_duration_seconds",
		metric.WithDescription("Duration of chat turns in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.AIErrorsTotal, err = meter.Int64Counter(
		"ai_errors_total",
		metric.WithDescription("Generative AI failures, by kind"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// ObserveSessions registers a callback reporting the live session count per kind.
func (m *AppMetrics) ObserveSessions(meter metric.Meter, count func() map[string]int64) error {
	if m == nil {
		return nil
	}
	var err error
	m.ActiveSessions, err = meter.Int64ObservableGauge(
		"active_sessions",
		metric.WithDescription("Live in-memory sessions, by kind"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		for kind, n := range count() {
			o.ObserveInt64(m.ActiveSessions, n, metric.WithAttributes(attribute.String("kind", kind)))
		}
		return nil
	}, m.ActiveSessions)
	return err
}

func (m *AppMetrics) RecordDiscovery(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.DiscoveryRequestsTotal.Add(ctx, 1, attrs)
	m.DiscoveryDurationSeconds.Record(ctx, d.Seconds(), attrs)
}

func (m *AppMetrics) RecordSuperseded(ctx context.Context) {
	if m == nil {
		return
	}
	m.DiscoverySupersededTotal.Add(ctx, 1)
}

func (m *AppMetrics) RecordChatTurn(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.ChatTurnsTotal.Add(ctx, 1, attrs)
	m.ChatDurationSeconds.Record(ctx, d.Seconds(), attrs)
}

func (m *AppMetrics) RecordAIError(ctx context.Context, kind, requestKind string) {
	if m == nil {
		return
	}
	m.AIErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("request_kind", requestKind),
	))
}
