package llmChat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/bharat-guide/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/bharat-guide/internal/api/generative_ai"
	"github.com/FACorreiaa/bharat-guide/internal/api/prompt"
	"github.com/FACorreiaa/bharat-guide/internal/locale"
	"github.com/FACorreiaa/bharat-guide/internal/types"
)

// ApologyMessage replaces the assistant reply whenever a turn fails.
const ApologyMessage = "Something went wrong. Arjun is taking a tea break!"

var (
	ErrEmptyMessage   = errors.New("message is empty")
	ErrTurnInProgress = errors.New("a reply is still being composed")
	ErrClosed         = errors.New("chat session closed")
)

// Session is one conversation with the guide. Turns are strictly serialized: while a
// reply is being composed every other Send is rejected.
type Session struct {
	id      string
	lang    types.Language
	sender  generativeAI.Sender
	builder prompt.Builder
	logger  *slog.Logger
	metrics *metrics.AppMetrics
	now     func() time.Time

	mu          sync.Mutex
	messages    []types.ChatMessage
	composing   bool
	contextHint string
	subscribers map[uint64]chan types.ChatSnapshot
	nextSub     uint64
	closed      bool
}

// NewSession binds the language for the life of the session and seeds the welcome message.
func NewSession(id string, lang types.Language, translator locale.Translator, sender generativeAI.Sender, builder prompt.Builder, logger *slog.Logger, m *metrics.AppMetrics) *Session {
	s := &Session{
		id:          id,
		lang:        lang,
		sender:      sender,
		builder:     builder,
		logger:      logger.With(slog.String("component", "chat"), slog.String("session_id", id)),
		metrics:     m,
		now:         time.Now,
		subscribers: make(map[uint64]chan types.ChatSnapshot),
	}
	s.messages = []types.ChatMessage{s.newMessage(types.RoleAssistant, translator.Translate(lang, locale.KeyWelcomeChat))}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Language() types.Language { return s.lang }

func (s *Session) newMessage(role types.MessageRole, text string) types.ChatMessage {
	return types.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: s.now(),
	}
}

// snapshot must be called with mu held.
func (s *Session) snapshot() types.ChatSnapshot {
	return types.ChatSnapshot{
		ID:        s.id,
		Language:  s.lang,
		Messages:  append([]types.ChatMessage(nil), s.messages...),
		Composing: s.composing,
	}
}

func (s *Session) Snapshot() types.ChatSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// SetLocationContext sets the hint attached to subsequent turns. An empty hint clears it.
func (s *Session) SetLocationContext(hint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contextHint = hint
}

// Send appends text as a user message and blocks until the assistant reply (or the
// apology) has been appended. Empty text and concurrent turns are rejected without
// touching the history.
func (s *Session) Send(ctx context.Context, text string) (types.ChatSnapshot, error) {
	return s.send(ctx, text, nil)
}

// SendWithContext is Send, but replaces the location hint once the turn is accepted.
// A rejected turn leaves the previous hint in place.
func (s *Session) SendWithContext(ctx context.Context, text, hint string) (types.ChatSnapshot, error) {
	return s.send(ctx, text, &hint)
}

func (s *Session) send(ctx context.Context, text string, hint *string) (types.ChatSnapshot, error) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return types.ChatSnapshot{}, ErrClosed
	case text == "":
		snap := s.snapshot()
		s.mu.Unlock()
		return snap, ErrEmptyMessage
	case s.composing:
		snap := s.snapshot()
		s.mu.Unlock()
		return snap, ErrTurnInProgress
	}

	if hint != nil {
		s.contextHint = *hint
	}
	history := append([]types.ChatMessage(nil), s.messages...)
	s.messages = append(s.messages, s.newMessage(types.RoleUser, text))
	s.composing = true
	turnHint := s.contextHint
	s.notify()
	s.mu.Unlock()

	reply := s.compose(context.WithoutCancel(ctx), history, text, turnHint)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, s.newMessage(types.RoleAssistant, reply))
	s.composing = false
	s.notify()
	return s.snapshot(), nil
}

// compose never fails: any error becomes the apology.
func (s *Session) compose(ctx context.Context, history []types.ChatMessage, text, hint string) string {
	ctx, span := otel.Tracer("ChatSession").Start(ctx, "ComposeReply", trace.WithAttributes(
		attribute.String("session.id", s.id),
		attribute.String("language", string(s.lang)),
		attribute.Int("history.length", len(history)),
		attribute.Bool("context.hint", hint != ""),
	))
	defer span.End()

	start := time.Now()
	spec := s.builder.BuildChatRequest(history, text, s.lang, hint)
	payload, err := s.sender.Send(ctx, spec)
	if err != nil {
		s.metrics.RecordChatTurn(ctx, "apology", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Chat turn failed")
		s.logger.WarnContext(ctx, "Chat turn failed, sending apology",
			slog.String("kind", string(generativeAI.KindOf(err))), slog.Any("error", err))
		return ApologyMessage
	}

	s.metrics.RecordChatTurn(ctx, "ok", time.Since(start))
	span.SetStatus(codes.Ok, "Reply composed")
	return payload.Text
}

// notify must be called with mu held.
func (s *Session) notify() {
	snap := s.snapshot()
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Subscribe yields the current snapshot immediately and then every change. Slow readers
// only see the latest snapshot.
func (s *Session) Subscribe() (<-chan types.ChatSnapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan types.ChatSnapshot, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = ch
	ch <- s.snapshot()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(ch)
			}
		})
	}
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
