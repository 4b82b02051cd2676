package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/bharat-guide/internal/api"
	"github.com/FACorreiaa/bharat-guide/internal/api/sessions"
)

type contextKey string

const SessionIDKey contextKey = "sessionID"

// Verifier validates a session token.
type Verifier interface {
	Verify(token string) (*sessions.Claims, error)
}

// Authenticate requires a token for the session named by the {id} URL parameter.
// The token comes from the Authorization header or, for websocket upgrades that cannot
// set headers, from the token query parameter.
func Authenticate(logger *slog.Logger, verifier Verifier, kind sessions.Kind) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"), slog.String("kind", string(kind)))

			tokenString, ok := bearerToken(r)
			if !ok {
				l.WarnContext(ctx, "Missing or malformed session token")
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				l.WarnContext(ctx, "Token parsing/validation failed", slog.Any("error", err))
				errMsg := "Invalid or expired token"
				if errors.Is(err, jwt.ErrTokenExpired) {
					errMsg = "Token has expired"
				} else if errors.Is(err, jwt.ErrTokenMalformed) {
					errMsg = "Malformed token"
				} else if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
					errMsg = "Invalid token signature"
				}
				api.ErrorResponse(w, r, http.StatusUnauthorized, errMsg)
				return
			}

			id := chi.URLParam(r, "id")
			if claims.Subject != id || claims.Kind != kind {
				l.WarnContext(ctx, "Token does not grant access to this session",
					slog.String("session_id", id), slog.String("subject", claims.Subject))
				api.ErrorResponse(w, r, http.StatusForbidden, "Token does not grant access to this session")
				return
			}

			ctx = context.WithValue(ctx, SessionIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return "", false
		}
		return strings.TrimSpace(token), true
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return token, true
	}
	return "", false
}

func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok
}
