package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/yourorg/property-api/mls"
	"github.com/yourorg/property-api/supabase"
)

func writeError(w http.ResponseWriter, req *http.Request, status int, code, detail string) {
	render.Status(req, status)
	render.JSON(w, req, map[string]any{"error": code, "detail": detail})
}

// writeClientError maps client-package failures onto the wire:
// unconfigured upstreams are 503, upstream failures echo their own
// status and body, integrity violations are 500.
func writeClientError(w http.ResponseWriter, req *http.Request, err error) {
	var mlsErr *mls.UpstreamError
	var sbErr *supabase.UpstreamError
	switch {
	case errors.Is(err, mls.ErrNotConfigured), errors.Is(err, supabase.ErrNotConfigured):
		writeError(w, req, http.StatusServiceUnavailable, "service_unavailable", err.Error())
	case errors.Is(err, supabase.ErrIntegrity):
		writeError(w, req, http.StatusInternalServerError, "data_integrity", err.Error())
	case errors.As(err, &mlsErr):
		writeError(w, req, mlsErr.StatusCode, "upstream_error", mlsErr.Body)
	case errors.As(err, &sbErr):
		writeError(w, req, sbErr.StatusCode, "upstream_error", sbErr.Body)
	default:
		writeError(w, req, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
