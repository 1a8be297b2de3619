package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/altruria/farmstore/internal/domain/user"
)

// identityKey is the context key for the authenticated identity.
type identityKey struct{}

// identityFrom extracts the authenticated identity set by authenticate.
func identityFrom(ctx context.Context) (user.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(user.Identity)
	return id, ok
}

// authenticate rejects requests without a valid bearer access token and
// stores the verified identity in the request context. The domain layer
// still receives the identity explicitly as a parameter.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, kindUnauthorized, "missing bearer token")
			return
		}

		id, err := h.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, kindUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actor returns the request identity, failing the request with 401 when the
// middleware did not run. Handlers behind authenticate call this first.
func actor(w http.ResponseWriter, r *http.Request) (user.Identity, bool) {
	id, ok := identityFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, kindUnauthorized, "authentication required")
	}
	return id, ok
}
