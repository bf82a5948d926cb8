// Package requestid carries per-request identifiers through a context so the
// log handler can stamp them on every record.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

type (
	requestKey struct{}
	userKey    struct{}
)

// maxLen bounds client-supplied request IDs.
const maxLen = 128

// New generates a random UUID v4 request ID.
func New() string {
	return uuid.NewString()
}

// Valid reports whether a client-supplied ID is safe to echo back and log:
// non-empty, at most maxLen bytes, printable ASCII without spaces.
func Valid(id string) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestKey{}, id)
}

// FromContext returns the request ID, or "" if absent.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestKey{}).(string)
	return id
}

// WithUserID attaches the signed-in user's ID, from a bearer token or a
// browser session.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userKey{}, id)
}

func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}
