package appMiddleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter := NewRateLimiter(1, 2, time.Minute)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	handler := limiter.Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/sessions", nil)
		req.RemoteAddr = remote
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("Burst then reject", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1234"))
		assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1235"))
		assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1236"))
	})

	t.Run("Other clients are independent", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, do("10.0.0.2:1234"))
	})

	t.Run("Tokens refill over time", func(t *testing.T) {
		now = now.Add(time.Second)
		assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1237"))
	})

	t.Run("Sweep drops idle buckets", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		assert.Equal(t, 2, limiter.Sweep())
	})
}
