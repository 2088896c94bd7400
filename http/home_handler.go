package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-api/internal/enrich"
	"github.com/yourorg/property-api/mls"
	"github.com/yourorg/property-api/supabase"
)

type HomeDeps struct {
	MLS          *mls.Client
	Enricher     *enrich.Enricher
	Store        *supabase.RowStore
	Verifier     supabase.TokenVerifier
	DefaultLimit int
	Log          *slog.Logger
}

// RegisterHome wires the page-load aggregate: the default listing page
// plus, for a logged-in caller, their user block. Identity resolution
// is best-effort, so a bad or expired token just yields the anonymous
// shape. A listing failure fails the whole request.
func RegisterHome(r chi.Router, d HomeDeps) {
	r.Get("/home", func(w http.ResponseWriter, req *http.Request) {
		raws, err := d.MLS.FetchListings(req.Context(), mls.ListingQuery{
			Top:    d.DefaultLimit,
			Filter: mls.BuildFilter(mls.SearchCriteria{}),
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

		resp := map[string]any{
			"properties":      views,
			"user":            nil,
			"userPreferences": nil,
			"recentlyViewed":  []string{},
			"favorites":       []string{},
			"showingRequests": []string{},
		}
		if tok := BearerToken(req); tok != "" {
			if ident, err := d.Verifier.VerifyToken(req.Context(), tok); err == nil {
				resp["user"] = d.userBlock(req, ident)
				resp["userPreferences"] = map[string]any{
					"notifications":       true,
					"darkMode":            false,
					"favoritePropertyIds": []string{},
				}
			}
		}
		render.JSON(w, req, resp)
	})
}

func (d HomeDeps) userBlock(req *http.Request, ident supabase.Identity) map[string]any {
	user := map[string]any{
		"id":     ident.Sub,
		"name":   "",
		"email":  ident.Email,
		"avatar": "/placeholder-user.jpg",
	}
	profile, err := d.Store.FetchUserProfile(req.Context(), ident.Sub)
	if err != nil {
		d.Log.Warn("profile lookup failed", "user_id", ident.Sub, "err", err)
		return user
	}
	if profile == nil {
		return user
	}
	user["name"] = strings.TrimSpace(profileString(profile, "first_name") + " " + profileString(profile, "last_name"))
	if email := profileString(profile, "email"); email != "" {
		user["email"] = email
	}
	if pic := profileString(profile, "profile_pic"); pic != "" {
		user["avatar"] = pic
	}
	return user
}

func profileString(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
