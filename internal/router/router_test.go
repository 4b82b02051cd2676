package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/bharat-guide/internal/api/places"
	"github.com/FACorreiaa/bharat-guide/internal/locale"
)

func reject(status int) func(http.Handler) http.Handler {
	return func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
	}
}

func TestSetupRouter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := SetupRouter(&Config{
		PlacesHandler:  places.NewHandler(locale.NewTable(), logger),
		DiscoveryAuth:  reject(http.StatusUnauthorized),
		ChatAuth:       reject(http.StatusUnauthorized),
		RateLimit:      reject(http.StatusTooManyRequests),
		AllowedOrigins: []string{"https://bharat.example"},
	})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"ping", http.MethodGet, "/ping", http.StatusOK},
		{"locales", http.MethodGet, "/api/v1/locales", http.StatusOK},
		{"iconic places", http.MethodGet, "/api/v1/places/iconic", http.StatusOK},
		{"discovery create is rate limited", http.MethodPost, "/api/v1/discovery/sessions", http.StatusTooManyRequests},
		{"chat create is rate limited", http.MethodPost, "/api/v1/chat/sessions", http.StatusTooManyRequests},
		{"discovery session needs token", http.MethodGet, "/api/v1/discovery/sessions/abc", http.StatusUnauthorized},
		{"discovery stream needs token", http.MethodGet, "/api/v1/discovery/sessions/abc/stream", http.StatusUnauthorized},
		{"chat message needs token", http.MethodPost, "/api/v1/chat/sessions/abc/messages", http.StatusUnauthorized},
		{"chat delete needs token", http.MethodDelete, "/api/v1/chat/sessions/abc", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/api/v1/poi", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSetupRouterCORS(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := SetupRouter(&Config{
		PlacesHandler:  places.NewHandler(locale.NewTable(), logger),
		DiscoveryAuth:  reject(http.StatusUnauthorized),
		ChatAuth:       reject(http.StatusUnauthorized),
		RateLimit:      reject(http.StatusTooManyRequests),
		AllowedOrigins: []string{"https://bharat.example"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/chat/sessions", nil)
	req.Header.Set("Origin", "https://bharat.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://bharat.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/locales", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
