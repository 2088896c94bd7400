package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/yourorg/property-api/supabase"
)

type ctxKey int

const identityKey ctxKey = iota

// IdentityFrom returns the verified caller stored by RequireIdentity.
func IdentityFrom(ctx context.Context) (supabase.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(supabase.Identity)
	return ident, ok
}

// BearerToken pulls the credential out of the Authorization header,
// empty when the header is absent or not a bearer scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// RequireIdentity verifies the caller's bearer token before letting the
// request through. The resolved identity rides in the request context.
func RequireIdentity(v supabase.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := BearerToken(r)
			if tok == "" {
				writeError(w, r, http.StatusUnauthorized, "missing_token", "Authorization bearer token required")
				return
			}
			ident, err := v.VerifyToken(r.Context(), tok)
			if err != nil {
				if errors.Is(err, supabase.ErrNotConfigured) {
					writeError(w, r, http.StatusServiceUnavailable, "service_unavailable", err.Error())
					return
				}
				writeError(w, r, http.StatusUnauthorized, "invalid_token", err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, ident)))
		})
	}
}
