package llmChat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/bharat-guide/internal/api"
	"github.com/FACorreiaa/bharat-guide/internal/api/prompt"
	"github.com/FACorreiaa/bharat-guide/internal/api/sessions"
	"github.com/FACorreiaa/bharat-guide/internal/api/stream"
	"github.com/FACorreiaa/bharat-guide/internal/locale"
	"github.com/FACorreiaa/bharat-guide/internal/types"
)

type CreateRequest struct {
	Language string `json:"language"`
}

type CreateResponse struct {
	ID      string             `json:"id"`
	Token   string             `json:"token"`
	Session types.ChatSnapshot `json:"session"`
}

type MessageRequest struct {
	Text string   `json:"text"`
	Lat  *float64 `json:"lat,omitempty"`
	Lng  *float64 `json:"lng,omitempty"`
}

type HandlerImpl struct {
	service     Service
	streamer    *stream.Streamer
	defaultLang types.Language
	logger      *slog.Logger
}

func NewHandlerImpl(service Service, streamer *stream.Streamer, defaultLang types.Language, logger *slog.Logger) *HandlerImpl {
	return &HandlerImpl{
		service:     service,
		streamer:    streamer,
		defaultLang: defaultLang,
		logger:      logger,
	}
}

func startSpan(r *http.Request, name, route string) (context.Context, trace.Span) {
	return otel.Tracer("ChatHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
}

// CreateSession starts a conversation in the requested language. An empty body uses the default.
func (h *HandlerImpl) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "CreateSession", "/api/v1/chat/sessions")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateChatSession"))

	var req CreateRequest
	if r.ContentLength != 0 {
		if err := api.DecodeJSONBody(w, r, &req); err != nil {
			l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	lang := h.defaultLang
	if req.Language != "" {
		parsed, err := locale.Parse(req.Language)
		if err != nil {
			l.WarnContext(ctx, "Unsupported language", slog.String("language", req.Language))
			api.ErrorResponse(w, r, http.StatusBadRequest, "Unsupported language")
			return
		}
		lang = parsed
	}

	session, token, err := h.service.Create(ctx, lang)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create chat session", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create chat session")
		return
	}

	span.SetAttributes(attribute.String("session.id", session.ID()), attribute.String("language", string(lang)))
	span.SetStatus(codes.Ok, "Session created")
	api.WriteJSONResponse(w, r, http.StatusCreated, CreateResponse{ID: session.ID(), Token: token, Session: session.Snapshot()})
}

func (h *HandlerImpl) lookup(ctx context.Context, w http.ResponseWriter, r *http.Request, l *slog.Logger) (*Session, bool) {
	id := chi.URLParam(r, "id")
	session, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			l.WarnContext(ctx, "Chat session not found", slog.String("session_id", id))
			api.ErrorResponse(w, r, http.StatusNotFound, "Chat session not found or expired")
			return nil, false
		}
		l.ErrorContext(ctx, "Failed to load chat session", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load chat session")
		return nil, false
	}
	return session, true
}

func (h *HandlerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetSession", "/api/v1/chat/sessions/{id}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetChatSession"))

	session, ok := h.lookup(ctx, w, r, l)
	if !ok {
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, session.Snapshot())
}

// SendMessage runs one turn and returns the session after the reply has been appended.
func (h *HandlerImpl) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "SendMessage", "/api/v1/chat/sessions/{id}/messages")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SendMessage"))

	session, ok := h.lookup(ctx, w, r, l)
	if !ok {
		return
	}

	var req MessageRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var (
		snap types.ChatSnapshot
		err  error
	)
	if req.Lat != nil && req.Lng != nil {
		loc := types.Location{Lat: *req.Lat, Lng: *req.Lng}
		if !loc.Valid() {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Coordinates out of range")
			return
		}
		snap, err = session.SendWithContext(ctx, req.Text, prompt.LocationContext(loc))
	} else {
		snap, err = session.Send(ctx, req.Text)
	}
	switch {
	case errors.Is(err, ErrEmptyMessage):
		api.ErrorResponse(w, r, http.StatusBadRequest, "Message text is required")
		return
	case errors.Is(err, ErrTurnInProgress):
		api.ErrorResponse(w, r, http.StatusConflict, "Arjun is still replying to the previous message")
		return
	case errors.Is(err, ErrClosed):
		api.ErrorResponse(w, r, http.StatusGone, "Chat session closed")
		return
	case err != nil:
		l.ErrorContext(ctx, "Chat turn failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to send message")
		return
	}

	span.SetAttributes(attribute.Int("messages.count", len(snap.Messages)))
	span.SetStatus(codes.Ok, "Turn completed")
	api.WriteJSONResponse(w, r, http.StatusOK, snap)
}

func (h *HandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "Stream", "/api/v1/chat/sessions/{id}/stream")
	defer span.End()
	l := h.logger.With(slog.String("handler", "StreamChat"))

	session, ok := h.lookup(ctx, w, r, l)
	if !ok {
		return
	}
	updates, unsubscribe := session.Subscribe()
	stream.Serve(h.streamer, w, r, "chat_session", updates, unsubscribe)
}

func (h *HandlerImpl) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "DeleteSession", "/api/v1/chat/sessions/{id}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteChatSession"))

	if err := h.service.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Chat session not found or expired")
			return
		}
		l.ErrorContext(ctx, "Failed to delete chat session", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete chat session")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
