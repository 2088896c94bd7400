package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-api/internal/enrich"
	"github.com/yourorg/property-api/mls"
)

type PropertiesDeps struct {
	MLS          *mls.Client
	Enricher     *enrich.Enricher
	DefaultLimit int
	Log          *slog.Logger
}

func RegisterProperties(r chi.Router, d PropertiesDeps) {
	r.Get("/properties", func(w http.ResponseWriter, req *http.Request) {
		crit := criteriaFromQuery(req, d.DefaultLimit)

		raws, err := d.MLS.FetchListings(req.Context(), mls.ListingQuery{
			Top:    crit.Limit,
			Filter: mls.BuildFilter(crit),
		})
		if err != nil {
			writeClientError(w, req, err)
			return
		}
		views, err := d.Enricher.EnrichAll(req.Context(), raws)
		if err != nil {
			writeClientError(w, req, err)
			return
		}
		render.JSON(w, req, views)
	})

	r.Get("/properties/{propertyID}", func(w http.ResponseWriter, req *http.Request) {
		propertyID := chi.URLParam(req, "propertyID")

		raw, err := d.MLS.FetchListing(req.Context(), propertyID)
		if err != nil {
			if errors.Is(err, mls.ErrNotFound) {
				writeError(w, req, http.StatusNotFound, "property_not_found", "no listing with key "+propertyID)
				return
			}
			writeClientError(w, req, err)
			return
		}
		images := d.MLS.FetchMedia(req.Context(), propertyID)
		render.JSON(w, req, mls.TransformProperty(raw, images))
	})

	r.Get("/properties/{propertyID}/media", func(w http.ResponseWriter, req *http.Request) {
		propertyID := chi.URLParam(req, "propertyID")
		if !d.MLS.Configured() {
			writeClientError(w, req, mls.ErrNotConfigured)
			return
		}
		urls := d.MLS.FetchMedia(req.Context(), propertyID)
		render.JSON(w, req, map[string]any{"property_id": propertyID, "media_urls": urls})
	})
}

// criteriaFromQuery reads the optional listing filters. Unparseable
// values are treated as absent rather than rejected.
func criteriaFromQuery(req *http.Request, defaultLimit int) mls.SearchCriteria {
	q := req.URL.Query()
	crit := mls.SearchCriteria{Limit: clampLimit(q.Get("limit"), defaultLimit)}

	if v := q.Get("city"); v != "" {
		crit.City = &v
	}
	if v := q.Get("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			crit.MinPrice = &f
		}
	}
	if v := q.Get("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			crit.MaxPrice = &f
		}
	}
	if v := q.Get("min_beds"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			crit.MinBeds = &i
		}
	}
	if v := q.Get("max_beds"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			crit.MaxBeds = &i
		}
	}
	if v := q.Get("min_baths"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			crit.MinBaths = &i
		}
	}
	if v := q.Get("max_baths"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			crit.MaxBaths = &i
		}
	}
	// property_type is accepted for frontend compatibility; the feed
	// slice pins its own type so the value is not forwarded.
	_ = q.Get("property_type")
	return crit
}

// clampLimit bounds the page size to 1-50. Absent, unparseable or
// non-positive values fall back to the configured default.
func clampLimit(raw string, def int) int {
	limit := def
	if raw != "" {
		if i, err := strconv.Atoi(raw); err == nil && i > 0 {
			limit = i
		}
	}
	if limit > 50 {
		limit = 50
	}
	if limit < 1 {
		limit = 1
	}
	return limit
}
