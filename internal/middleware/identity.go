package middleware

import (
	"context"
	"net/http"
)

// UserIDHeader names the trusted identity header set by the gateway
const UserIDHeader = "X-User-ID"

// Identity resolves the calling user from the identity header and stores it
// in the request context. Requests without the header pass through; handlers
// that need a caller reject them individually.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the calling user's ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
