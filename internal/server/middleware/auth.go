// Package middleware contains the HTTP middleware chain: auth, request
// logging, panic recovery, rate limiting and metrics.
package middleware

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/karirin/osidate-backend/internal/common"
)

type contextKey string

// userIDKey carries the authenticated user's ID through the request
// context.
const userIDKey contextKey = "userID"

// TokenResolver turns a bearer token into a user ID. Implemented by the
// users service.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (int64, error)
}

// Auth validates the Authorization header and stores the resolved user ID
// in the request context.
func Auth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				common.RespondError(w, http.StatusUnauthorized, "authorization header required")
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if token == header || token == "" {
				common.RespondError(w, http.StatusUnauthorized, "invalid authorization format, use 'Bearer <token>'")
				return
			}

			userID, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				log.WithError(err).Debug("Token resolution failed")
				common.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated user's ID from the request context.
// ok is false on routes that skipped the auth middleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}
