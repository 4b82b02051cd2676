package discovery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/bharat-guide/app/observability/metrics"
	"github.com/FACorreiaa/bharat-guide/internal/api/events"
	generativeAI "github.com/FACorreiaa/bharat-guide/internal/api/generative_ai"
	"github.com/FACorreiaa/bharat-guide/internal/api/prompt"
	"github.com/FACorreiaa/bharat-guide/internal/api/sessions"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Create(ctx context.Context) (*Orchestrator, string, error)
	Get(ctx context.Context, id string) (*Orchestrator, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	registry  *sessions.Registry
	tokens    *sessions.Tokens
	sender    generativeAI.Sender
	builder   prompt.Builder
	forwarder *events.Forwarder
	logger    *slog.Logger
	metrics   *metrics.AppMetrics
}

func NewServiceImpl(
	registry *sessions.Registry,
	tokens *sessions.Tokens,
	sender generativeAI.Sender,
	builder prompt.Builder,
	forwarder *events.Forwarder,
	logger *slog.Logger,
	m *metrics.AppMetrics,
) *ServiceImpl {
	return &ServiceImpl{
		registry:  registry,
		tokens:    tokens,
		sender:    sender,
		builder:   builder,
		forwarder: forwarder,
		logger:    logger,
		metrics:   m,
	}
}

// Create registers a new orchestrator and returns it with its access token.
func (s *ServiceImpl) Create(ctx context.Context) (*Orchestrator, string, error) {
	id := uuid.NewString()
	token, err := s.tokens.Issue(sessions.KindDiscovery, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue discovery token: %w", err)
	}

	o := NewOrchestrator(id, s.sender, s.builder, s.logger, s.metrics)
	s.registry.Put(sessions.KindDiscovery, id, o)

	if s.forwarder != nil {
		updates, unsubscribe := o.Subscribe()
		go events.Forward(context.WithoutCancel(ctx), s.forwarder, string(sessions.KindDiscovery), id, updates, unsubscribe)
	}

	s.logger.InfoContext(ctx, "Discovery session created", slog.String("session_id", id))
	return o, token, nil
}

func (s *ServiceImpl) Get(_ context.Context, id string) (*Orchestrator, error) {
	return sessions.Lookup[*Orchestrator](s.registry, sessions.KindDiscovery, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.registry.Delete(sessions.KindDiscovery, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Discovery session deleted", slog.String("session_id", id))
	return nil
}
