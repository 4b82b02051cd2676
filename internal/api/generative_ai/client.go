package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/bharat-guide/app/observability/metrics"
)

// Generator is the slice of the genai API the client depends on. *genai.Models satisfies it.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Sender issues a single request and returns its parsed payload. Errors are always *ServiceError.
type Sender interface {
	Send(ctx context.Context, spec RequestSpec) (*Payload, error)
}

type Options struct {
	// Model is used when a RequestSpec leaves Model empty.
	Model      string
	Timeout    time.Duration
	Validation ValidationMode
}

type Client struct {
	generator Generator
	opts      Options
	logger    *slog.Logger
	metrics   *metrics.AppMetrics
}

var _ Sender = (*Client)(nil)

// NewGeminiClient connects to the Gemini API with the given key.
func NewGeminiClient(ctx context.Context, apiKey string, opts Options, logger *slog.Logger, m *metrics.AppMetrics) (*Client, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewGeminiClient")
	defer span.End()

	if apiKey == "" {
		err := errors.New("GOOGLE_GEMINI_API_KEY environment variable is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	span.SetStatus(codes.Ok, "AI client created successfully")
	return NewClient(client.Models, opts, logger, m), nil
}

func NewClient(generator Generator, opts Options, logger *slog.Logger, m *metrics.AppMetrics) *Client {
	if opts.Validation == "" {
		opts.Validation = ValidationStrict
	}
	return &Client{
		generator: generator,
		opts:      opts,
		logger:    logger.With(slog.String("component", "generative_ai")),
		metrics:   m,
	}
}

// Send performs exactly one generation call. It never retries and never panics.
func (c *Client) Send(ctx context.Context, spec RequestSpec) (payload *Payload, err error) {
	model := spec.Model
	if model == "" {
		model = c.opts.Model
	}

	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "Send", trace.WithAttributes(
		attribute.String("request.kind", string(spec.Kind)),
		attribute.String("model", model),
		attribute.Int("prompt.length", len(spec.Prompt)),
		attribute.Int("history.turns", len(spec.Turns)),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = &ServiceError{Kind: ErrUnknown, Request: spec.Kind, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			kind := KindOf(err)
			span.RecordError(err)
			span.SetStatus(codes.Error, string(kind))
			c.metrics.RecordAIError(ctx, string(kind), string(spec.Kind))
			c.logger.WarnContext(ctx, "Generation failed",
				slog.String("kind", string(kind)),
				slog.String("request", string(spec.Kind)),
				slog.Any("error", err))
			return
		}
		span.SetStatus(codes.Ok, "Generation succeeded")
	}()

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	resp, err := c.generator.GenerateContent(ctx, model, spec.contents(), spec.config())
	if err != nil {
		return nil, &ServiceError{Kind: ErrNetwork, Request: spec.Kind, Err: err}
	}
	if resp == nil {
		return nil, newError(ErrUnknown, spec.Kind, "nil response")
	}

	text := resp.Text()
	span.SetAttributes(attribute.Int("response.length", len(text)))

	switch spec.Kind {
	case KindDiscovery:
		items, err := parseDiscovery(text, c.opts.Validation)
		if err != nil {
			return nil, err
		}
		span.SetAttributes(attribute.Int("response.items", len(items)))
		return &Payload{Items: items}, nil
	case KindChat:
		reply, err := parseChat(text)
		if err != nil {
			return nil, err
		}
		return &Payload{Text: reply}, nil
	default:
		return nil, newError(ErrUnknown, spec.Kind, "unsupported request kind %q", spec.Kind)
	}
}
