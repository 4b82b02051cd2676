package llmChat

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
	"github.com/FACorreiaa/bharat-guide/internal/locale"
	"github.com/FACorreiaa/bharat-guide/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Create(ctx context.Context, lang types.Language) (*Session, string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	registry   *sessions.Registry
	tokens     *sessions.Tokens
	translator locale.Translator
	sender     generativeAI.Sender
	builder    prompt.Builder
	forwarder  *events.Forwarder
	logger     *slog.Logger
	metrics    *metrics.AppMetrics
}

func NewServiceImpl(
	registry *sessions.Registry,
	tokens *sessions.Tokens,
	translator locale.Translator,
	sender generativeAI.Sender,
	builder prompt.Builder,
	forwarder *events.Forwarder,
	logger *slog.Logger,
	m *metrics.AppMetrics,
) *ServiceImpl {
	return &ServiceImpl{
		registry:   registry,
		tokens:     tokens,
		translator: translator,
		sender:     sender,
		builder:    builder,
		forwarder:  forwarder,
		logger:     logger,
		metrics:    m,
	}
}

func (s *ServiceImpl) Create(ctx context.Context, lang types.Language) (*Session, string, error) {
	id := uuid.NewString()
	token, err := s.tokens.Issue(sessions.KindChat, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue chat token: %w", err)
	}

	session := NewSession(id, lang, s.translator, s.sender, s.builder, s.logger, s.metrics)
	s.registry.Put(sessions.KindChat, id, session)

	if s.forwarder != nil {
		updates, unsubscribe := session.Subscribe()
		go events.Forward(context.WithoutCancel(ctx), s.forwarder, string(sessions.KindChat), id, updates, unsubscribe)
	}

	s.logger.InfoContext(ctx, "Chat session created", slog.String("session_id", id), slog.String("language", string(lang)))
	return session, token, nil
}

func (s *ServiceImpl) Get(_ context.Context, id string) (*Session, error) {
	return sessions.Lookup[*Session](s.registry, sessions.KindChat, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.registry.Delete(sessions.KindChat, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Chat session deleted", slog.String("session_id", id))
	return nil
}
