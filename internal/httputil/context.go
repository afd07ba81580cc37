package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal adds the authenticated user key to the request context.
func WithPrincipal(r *http.Request, userID string) *http.Request {
	ctx := context.WithValue(r.Context(), principalKey, userID)
	return r.WithContext(ctx)
}

// GetPrincipal retrieves the authenticated user key from the context,
// returning the empty string if none is set.
func GetPrincipal(r *http.Request) string {
	userID, _ := r.Context().Value(principalKey).(string)
	return userID
}
