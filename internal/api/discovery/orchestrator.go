package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/bharat-guide/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/bharat-guide/internal/api/generative_ai"
	"github.com/FACorreiaa/bharat-guide/internal/api/places"
	"github.com/FACorreiaa/bharat-guide/internal/api/prompt"
	"github.com/FACorreiaa/bharat-guide/internal/types"
)

var (
	ErrClosed          = errors.New("discovery session closed")
	ErrInvalidLocation = errors.New("invalid location")
)

// Ticket identifies one issued request.
type Ticket struct {
	Token uint64
	done  <-chan struct{}
}

// Done is closed once the request has either been committed or discarded.
func (t Ticket) Done() <-chan struct{} { return t.done }

func (t Ticket) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type inflight struct {
	token  uint64
	anchor types.Location
	lang   types.Language
	done   chan struct{}
}

// Orchestrator owns one discovery flow. Only the most recently issued request may
// commit its result; older completions are dropped when they arrive.
type Orchestrator struct {
	id      string
	sender  generativeAI.Sender
	builder prompt.Builder
	logger  *slog.Logger
	metrics *metrics.AppMetrics

	mu          sync.Mutex
	state       types.DiscoveryState
	token       uint64
	current     *inflight
	subscribers map[uint64]chan types.DiscoveryState
	nextSub     uint64
	closed      bool
	wg          sync.WaitGroup
}

func NewOrchestrator(id string, sender generativeAI.Sender, builder prompt.Builder, logger *slog.Logger, m *metrics.AppMetrics) *Orchestrator {
	return &Orchestrator{
		id:          id,
		sender:      sender,
		builder:     builder,
		logger:      logger.With(slog.String("component", "discovery"), slog.String("session_id", id)),
		metrics:     m,
		state:       types.NewDiscoveryState(places.Iconic()),
		subscribers: make(map[uint64]chan types.DiscoveryState),
	}
}

func (o *Orchestrator) ID() string { return o.id }

// State returns a snapshot of the current state.
func (o *Orchestrator) State() types.DiscoveryState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.Clone()
}

// SelectAnchor starts discovery around loc. Selecting the anchor already being loaded
// returns the existing ticket instead of issuing a duplicate request.
func (o *Orchestrator) SelectAnchor(ctx context.Context, loc types.Location, lang types.Language) (Ticket, error) {
	if !loc.Valid() {
		return Ticket{}, fmt.Errorf("%w: %v,%v", ErrInvalidLocation, loc.Lat, loc.Lng)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return Ticket{}, ErrClosed
	}
	if c := o.current; c != nil && c.anchor == loc && c.lang == lang {
		return Ticket{Token: c.token, done: c.done}, nil
	}

	o.token++
	req := &inflight{token: o.token, anchor: loc, lang: lang, done: make(chan struct{})}
	o.current = req
	o.setState(o.state.Loading(loc))

	spec := o.builder.BuildDiscoveryRequest(loc, lang)

	// The request outlives the caller; only supersession or Close stops its result from landing.
	o.wg.Add(1)
	go o.run(context.WithoutCancel(ctx), req, spec)

	o.logger.InfoContext(ctx, "Discovery issued",
		slog.Uint64("token", req.token),
		slog.Float64("lat", loc.Lat),
		slog.Float64("lng", loc.Lng),
		slog.String("language", string(lang)))

	return Ticket{Token: req.token, done: req.done}, nil
}

func (o *Orchestrator) run(ctx context.Context, req *inflight, spec generativeAI.RequestSpec) {
	defer o.wg.Done()
	defer close(req.done)

	ctx, span := otel.Tracer("DiscoveryOrchestrator").Start(ctx, "Discover", trace.WithAttributes(
		attribute.String("session.id", o.id),
		attribute.Int64("request.token", int64(req.token)),
		attribute.Float64("anchor.lat", req.anchor.Lat),
		attribute.Float64("anchor.lng", req.anchor.Lng),
	))
	defer span.End()

	start := time.Now()
	payload, err := o.sender.Send(ctx, spec)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || req.token != o.token {
		o.metrics.RecordSuperseded(ctx)
		span.SetAttributes(attribute.Bool("superseded", true))
		span.SetStatus(codes.Ok, "Result discarded")
		o.logger.DebugContext(ctx, "Discarding stale discovery result",
			slog.Uint64("token", req.token), slog.Uint64("latest", o.token))
		return
	}
	o.current = nil

	if err != nil {
		o.setState(o.state.Failed())
		o.metrics.RecordDiscovery(ctx, "failed", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Discovery failed")
		o.logger.WarnContext(ctx, "Discovery failed",
			slog.String("kind", string(generativeAI.KindOf(err))), slog.Any("error", err))
		return
	}

	found := toPlaces(req.anchor, payload.Items)
	next := o.state.Resolved(found)
	o.setState(next)
	o.metrics.RecordDiscovery(ctx, string(next.Status), time.Since(start))
	span.SetAttributes(attribute.Int("places.count", len(found)))
	span.SetStatus(codes.Ok, "Discovery committed")
	o.logger.InfoContext(ctx, "Discovery committed", slog.Int("places", len(found)))
}

// setState must be called with mu held.
func (o *Orchestrator) setState(next types.DiscoveryState) {
	o.state = next
	for _, ch := range o.subscribers {
		publish(ch, next.Clone())
	}
}

// publish keeps only the latest snapshot in a subscriber's buffer.
func publish(ch chan types.DiscoveryState, s types.DiscoveryState) {
	select {
	case ch <- s:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}

// Subscribe returns a channel that immediately yields the current state and then every
// later state. Slow readers only ever see the latest snapshot. The returned func unsubscribes.
func (o *Orchestrator) Subscribe() (<-chan types.DiscoveryState, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ch := make(chan types.DiscoveryState, 1)
	if o.closed {
		close(ch)
		return ch, func() {}
	}
	id := o.nextSub
	o.nextSub++
	o.subscribers[id] = ch
	ch <- o.state.Clone()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if _, ok := o.subscribers[id]; ok {
				delete(o.subscribers, id)
				close(ch)
			}
		})
	}
}

// Close drops any in-flight result and ends every subscription.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.current = nil
	for id, ch := range o.subscribers {
		delete(o.subscribers, id)
		close(ch)
	}
}

// Drain waits for every in-flight request goroutine to return.
func (o *Orchestrator) Drain() {
	o.wg.Wait()
}

func toPlaces(anchor types.Location, items []generativeAI.DiscoveryItem) []types.Place {
	out := make([]types.Place, 0, len(items))
	for i, it := range items {
		out = append(out, types.Place{
			ID:          placeID(anchor, i),
			Name:        it.Name,
			Description: it.Description,
			Location:    types.Location{Lat: it.Lat, Lng: it.Lng},
			ImageRef:    places.ImageRef(it.Name),
			Category:    types.Category(it.Category),
			Rating:      types.ClampRating(it.Rating),
			Tags:        append([]string(nil), it.Tags...),
		})
	}
	return out
}

func placeID(anchor types.Location, index int) string {
	return "gem-" + strconv.FormatFloat(anchor.Lat, 'f', -1, 64) + "-" +
		strconv.FormatFloat(anchor.Lng, 'f', -1, 64) + "-" + strconv.Itoa(index)
}
