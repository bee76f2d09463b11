package delivery

import (
	"context"
	"net/http"

	"github.com/software-students-fall2024/5-final-y2k/internal/ports"
)

type contextKey string

const usernameKey contextKey = "username"

func AuthMiddleware(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			token := r.Header.Get("X-Auth")
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing token")
				return
			}

			username, ok := auth.ValidateToken(r.Context(), token)
			if !ok {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext returns the authenticated username, if any.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}
