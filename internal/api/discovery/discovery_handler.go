package discovery

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
	"github.com/FACorreiaa/bharat-guide/internal/api/sessions"
	"github.com/FACorreiaa/bharat-guide/internal/api/stream"
	"github.com/FACorreiaa/bharat-guide/internal/locale"
	"github.com/FACorreiaa/bharat-guide/internal/types"
)

type CreateResponse struct {
	ID    string               `json:"id"`
	Token string               `json:"token"`
	State types.DiscoveryState `json:"state"`
}

type AnchorRequest struct {
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Language string   `json:"language"`
	// Wait blocks the response until the request is committed or discarded
	Wait bool `json:"wait"`
}

type AnchorResponse struct {
	Token uint64               `json:"request_token"`
	State types.DiscoveryState `json:"state"`
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
	return otel.Tracer("DiscoveryHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
}

// CreateSession starts a discovery flow seeded with the iconic places.
func (h *HandlerImpl) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "CreateSession", "/api/v1/discovery/sessions")
	defer span.End()
	l := h.logger.With(slog.String("handler", "CreateDiscoverySession"))

	o, token, err := h.service.Create(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create discovery session", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Create failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create discovery session")
		return
	}

	span.SetAttributes(attribute.String("session.id", o.ID()))
	span.SetStatus(codes.Ok, "Session created")
	api.WriteJSONResponse(w, r, http.StatusCreated, CreateResponse{ID: o.ID(), Token: token, State: o.State()})
}

func (h *HandlerImpl) lookup(ctx context.Context, w http.ResponseWriter, r *http.Request, l *slog.Logger) (*Orchestrator, bool) {
	id := chi.URLParam(r, "id")
	o, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			l.WarnContext(ctx, "Discovery session not found", slog.String("session_id", id))
			api.ErrorResponse(w, r, http.StatusNotFound, "Discovery session not found or expired")
			return nil, false
		}
		l.ErrorContext(ctx, "Failed to load discovery session", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load discovery session")
		return nil, false
	}
	return o, true
}

func (h *HandlerImpl) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "GetSession", "/api/v1/discovery/sessions/{id}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "GetDiscoverySession"))

	o, ok := h.lookup(ctx, w, r, l)
	if !ok {
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, o.State())
}

// SelectAnchor issues discovery for the posted coordinates.
func (h *HandlerImpl) SelectAnchor(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "SelectAnchor", "/api/v1/discovery/sessions/{id}/anchor")
	defer span.End()
	l := h.logger.With(slog.String("handler", "SelectAnchor"))

	o, ok := h.lookup(ctx, w, r, l)
	if !ok {
		return
	}

	var req AnchorRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Lat == nil || req.Lng == nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "lat and lng are required")
		return
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

	loc := types.Location{Lat: *req.Lat, Lng: *req.Lng}
	span.SetAttributes(
		attribute.Float64("anchor.lat", loc.Lat),
		attribute.Float64("anchor.lng", loc.Lng),
		attribute.String("language", string(lang)),
	)

	ticket, err := o.SelectAnchor(ctx, loc, lang)
	switch {
	case errors.Is(err, ErrInvalidLocation):
		api.ErrorResponse(w, r, http.StatusBadRequest, "Coordinates out of range")
		return
	case errors.Is(err, ErrClosed):
		api.ErrorResponse(w, r, http.StatusGone, "Discovery session closed")
		return
	case err != nil:
		l.ErrorContext(ctx, "Failed to select anchor", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to start discovery")
		return
	}

	status := http.StatusAccepted
	if req.Wait {
		if err := ticket.Wait(ctx); err != nil {
			l.WarnContext(ctx, "Client stopped waiting for discovery", slog.Any("error", err))
			return
		}
		status = http.StatusOK
	}

	span.SetStatus(codes.Ok, "Anchor selected")
	api.WriteJSONResponse(w, r, status, AnchorResponse{Token: ticket.Token, State: o.State()})
}

// Stream pushes every state change over a websocket.
func (h *HandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "Stream", "/api/v1/discovery/sessions/{id}/stream")
	defer span.End()
	l := h.logger.With(slog.String("handler", "StreamDiscovery"))

	o, ok := h.lookup(ctx, w, r, l)
	if !ok {
		return
	}
	updates, unsubscribe := o.Subscribe()
	stream.Serve(h.streamer, w, r, "discovery_state", updates, unsubscribe)
}

func (h *HandlerImpl) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r, "DeleteSession", "/api/v1/discovery/sessions/{id}")
	defer span.End()
	l := h.logger.With(slog.String("handler", "DeleteDiscoverySession"))

	if err := h.service.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Discovery session not found or expired")
			return
		}
		l.ErrorContext(ctx, "Failed to delete discovery session", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to delete discovery session")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusNoContent, nil)
}
