// Package stream pushes state snapshots to presentation clients over websockets.
package stream

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
)

type Config struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration
	// Time allowed to read the next pong message from the peer
	PongWait time.Duration
	// Send pings to peer with this period, must be less than PongWait
	PingPeriod time.Duration
	// Clients only send control frames, so this stays small
	MaxMessageSize int64
}

func DefaultConfig() Config {
	return Config{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 4096,
	}
}

// Message is the envelope every frame is wrapped in.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type Streamer struct {
	upgrader websocket.Upgrader
	cfg      Config
	logger   *slog.Logger
}

// NewStreamer accepts upgrades from the given origins. An empty list or "*" allows any origin.
func NewStreamer(cfg Config, allowedOrigins []string, logger *slog.Logger) *Streamer {
	return &Streamer{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "stream")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
					return true
				}
				return slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Serve upgrades the request and writes every value received from updates as a
// Message of the given type until the channel closes or the peer goes away.
// unsubscribe is always called before Serve returns.
func Serve[T any](s *Streamer, w http.ResponseWriter, r *http.Request, msgType string, updates <-chan T, unsubscribe func()) {
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Failed to upgrade to WebSocket", slog.Any("error", err))
		return
	}
	defer conn.Close()

	l := s.logger.With(slog.String("remote_addr", r.RemoteAddr), slog.String("path", r.URL.Path))
	l.InfoContext(r.Context(), "WebSocket connected")

	gone := make(chan struct{})
	go s.readPump(conn, gone, l)
	writePump(s, conn, msgType, updates, gone, l)

	l.InfoContext(r.Context(), "WebSocket disconnected")
}

// readPump discards client frames and closes gone when the peer disconnects.
func (s *Streamer) readPump(conn *websocket.Conn, gone chan<- struct{}, l *slog.Logger) {
	defer close(gone)

	conn.SetReadLimit(s.cfg.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Warn("WebSocket read error", slog.Any("error", err))
			}
			return
		}
	}
}

func writePump[T any](s *Streamer, conn *websocket.Conn, msgType string, updates <-chan T, gone <-chan struct{}, l *slog.Logger) {
	ticker := time.NewTicker(s.cfg.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case value, ok := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if !ok {
				// The session ended
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if err := conn.WriteJSON(Message{Type: msgType, Data: value}); err != nil {
				l.Debug("WebSocket write failed", slog.Any("error", err))
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-gone:
			return
		}
	}
}
