package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xelth-com/recoverydesk/internal/utils"
)

type contextKey string

const ClaimsContextKey contextKey = "claims"

// Auth verifies the operator's bearer token
func Auth(secret string) func(http.Handler) http.Handler {
	return authenticate(secret, false)
}

// StreamAuth is Auth for websocket upgrades. Browsers cannot set headers on
// a websocket handshake, so the token may also arrive as ?token=.
func StreamAuth(secret string) func(http.Handler) http.Handler {
	return authenticate(secret, true)
}

func authenticate(secret string, allowQuery bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			authHeader := r.Header.Get("Authorization")
			switch {
			case authHeader != "":
				parts := strings.Split(authHeader, " ")
				if len(parts) != 2 || parts[0] != "Bearer" {
					unauthorized(w, "Invalid authorization header format")
					return
				}
				token = parts[1]
			case allowQuery && r.URL.Query().Get("token") != "":
				token = r.URL.Query().Get("token")
			default:
				unauthorized(w, "Authorization header required")
				return
			}

			claims, err := utils.ValidateToken(token, secret)
			if err != nil {
				unauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the token claims stored by Auth
func ClaimsFrom(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(jwt.MapClaims)
	return claims, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + msg + `"}`))
}
