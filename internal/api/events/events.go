// Package events republishes session state changes onto NATS for out-of-process consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

type Config struct {
	URL            string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Connect dials NATS with reconnect handling.
func Connect(cfg Config, logger *slog.Logger) (*nats.Conn, error) {
	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	options := []nats.Option{
		nats.Name("bharat-guide"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(timeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}
	return nc, nil
}

// Forwarder publishes every snapshot of a session to <prefix>.<kind>.<id>.state.
type Forwarder struct {
	pub    Publisher
	prefix string
	logger *slog.Logger
}

func NewForwarder(pub Publisher, prefix string, logger *slog.Logger) *Forwarder {
	return &Forwarder{pub: pub, prefix: prefix, logger: logger.With(slog.String("component", "events"))}
}

func (f *Forwarder) Subject(kind, id string) string {
	if f.prefix == "" {
		return fmt.Sprintf("%s.%s.state", kind, id)
	}
	return fmt.Sprintf("%s.%s.%s.state", f.prefix, kind, id)
}

// Forward publishes until updates is closed or ctx is done. A nil Forwarder just drains.
func Forward[T any](ctx context.Context, f *Forwarder, kind, id string, updates <-chan T, unsubscribe func()) {
	defer unsubscribe()
	if f == nil {
		return
	}
	subject := f.Subject(kind, id)

	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(v)
			if err != nil {
				f.logger.Error("Failed to marshal state event", slog.String("subject", subject), slog.Any("error", err))
				continue
			}
			if err := f.pub.Publish(subject, data); err != nil {
				f.logger.Warn("Failed to publish state event", slog.String("subject", subject), slog.Any("error", err))
			}
		}
	}
}
