package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-api/supabase"
)

type CollectionsDeps struct {
	Store    *supabase.RowStore
	Verifier supabase.TokenVerifier
	Log      *slog.Logger
}

// RegisterCollections wires the cart and wishlist trios. The two
// resources share handlers parameterized by table name; wishlist
// additionally gets move-to-cart.
func RegisterCollections(r chi.Router, d CollectionsDeps) {
	r.Route("/cart", func(cr chi.Router) {
		cr.Use(RequireIdentity(d.Verifier))
		cr.Get("/", d.list(supabase.ResourceCart))
		cr.Delete("/", d.clear(supabase.ResourceCart))
		cr.Post("/{propertyID}", d.add(supabase.ResourceCart))
		cr.Delete("/{propertyID}", d.remove(supabase.ResourceCart))
	})
	r.Route("/wishlist", func(wr chi.Router) {
		wr.Use(RequireIdentity(d.Verifier))
		wr.Get("/", d.list(supabase.ResourceWishlist))
		wr.Delete("/", d.clear(supabase.ResourceWishlist))
		wr.Post("/{propertyID}", d.add(supabase.ResourceWishlist))
		wr.Delete("/{propertyID}", d.remove(supabase.ResourceWishlist))
		wr.Post("/{propertyID}/move-to-cart", d.moveToCart)
	})
}

func (d CollectionsDeps) add(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ident, ok := IdentityFrom(req.Context())
		if !ok {
			writeError(w, req, http.StatusUnauthorized, "missing_identity", "no verified caller")
			return
		}
		propertyID := chi.URLParam(req, "propertyID")

		already, err := d.Store.AddItem(req.Context(), resource, ident.Sub, propertyID, ident.Token)
		if err != nil {
			writeClientError(w, req, err)
			return
		}
		render.Status(req, http.StatusCreated)
		if already {
			render.JSON(w, req, map[string]any{"ok": true, "message": "Already in " + resource})
			return
		}
		render.JSON(w, req, map[string]any{"ok": true})
	}
}

func (d CollectionsDeps) remove(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ident, ok := IdentityFrom(req.Context())
		if !ok {
			writeError(w, req, http.StatusUnauthorized, "missing_identity", "no verified caller")
			return
		}
		propertyID := chi.URLParam(req, "propertyID")

		if err := d.Store.RemoveItem(req.Context(), resource, ident.Sub, propertyID, ident.Token); err != nil {
			writeClientError(w, req, err)
			return
		}
		render.NoContent(w, req)
	}
}

func (d CollectionsDeps) list(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ident, ok := IdentityFrom(req.Context())
		if !ok {
			writeError(w, req, http.StatusUnauthorized, "missing_identity", "no verified caller")
			return
		}

		ids, err := d.Store.ListItems(req.Context(), resource, ident.Sub, ident.Token)
		if err != nil {
			writeClientError(w, req, err)
			return
		}
		render.JSON(w, req, map[string]any{
			"items":   ids,
			"user_id": ident.Sub,
			"count":   len(ids),
		})
	}
}

func (d CollectionsDeps) clear(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ident, ok := IdentityFrom(req.Context())
		if !ok {
			writeError(w, req, http.StatusUnauthorized, "missing_identity", "no verified caller")
			return
		}

		if err := d.Store.ClearItems(req.Context(), resource, ident.Sub, ident.Token); err != nil {
			writeClientError(w, req, err)
			return
		}
		render.NoContent(w, req)
	}
}

// moveToCart adds the listing to the cart first, so a failure between
// the two writes leaves the item present in both places rather than in
// neither.
func (d CollectionsDeps) moveToCart(w http.ResponseWriter, req *http.Request) {
	ident, ok := IdentityFrom(req.Context())
	if !ok {
		writeError(w, req, http.StatusUnauthorized, "missing_identity", "no verified caller")
		return
	}
	propertyID := chi.URLParam(req, "propertyID")

	if _, err := d.Store.AddItem(req.Context(), supabase.ResourceCart, ident.Sub, propertyID, ident.Token); err != nil {
		writeClientError(w, req, err)
		return
	}
	if err := d.Store.RemoveItem(req.Context(), supabase.ResourceWishlist, ident.Sub, propertyID, ident.Token); err != nil {
		writeClientError(w, req, err)
		return
	}
	render.JSON(w, req, map[string]any{"ok": true, "moved": true})
}
