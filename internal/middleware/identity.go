package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ContextKey string

const UserIDKey ContextKey = "userID"

const UserIDHeader = "X-User-ID"

// Identify stores the caller's self-declared user id, if any, in the request context.
func Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := strings.TrimSpace(r.Header.Get(UserIDHeader)); id != "" {
			r = r.WithContext(context.WithValue(r.Context(), UserIDKey, id))
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}
