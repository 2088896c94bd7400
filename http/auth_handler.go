package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/property-api/supabase"
)

type AuthDeps struct {
	Auth     *supabase.AuthClient
	Verifier supabase.TokenVerifier
	Store    *supabase.RowStore
	Log      *slog.Logger
}

type signupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RegisterAuth wires the pass-through auth endpoints. Token issuing is
// entirely the auth service's business; these handlers echo whatever
// status and body it answers with.
func RegisterAuth(r chi.Router, d AuthDeps) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", d.signup)
		ar.Post("/login", d.login)
		ar.Post("/refresh", d.refresh)
		ar.With(RequireIdentity(d.Verifier)).Get("/me", d.me)
	})
}

func (d AuthDeps) signup(w http.ResponseWriter, req *http.Request) {
	var body signupRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, req, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if body.Role == "" {
		body.Role = "user"
	}

	status, data, err := d.Auth.Signup(req.Context(), body.Email, body.Password, map[string]any{
		"first_name": body.FirstName,
		"last_name":  body.LastName,
		"role":       body.Role,
	})
	if err != nil {
		writeClientError(w, req, err)
		return
	}
	render.Status(req, status)
	render.JSON(w, req, data)
}

func (d AuthDeps) login(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, req, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	status, data, err := d.Auth.PasswordGrant(req.Context(), body.Email, body.Password)
	if err != nil {
		writeClientError(w, req, err)
		return
	}
	render.Status(req, status)
	render.JSON(w, req, data)
}

func (d AuthDeps) refresh(w http.ResponseWriter, req *http.Request) {
	var body refreshRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, req, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	status, data, err := d.Auth.RefreshGrant(req.Context(), body.RefreshToken)
	if err != nil {
		writeClientError(w, req, err)
		return
	}
	render.Status(req, status)
	render.JSON(w, req, data)
}

// me reports the verified identity plus the users-table row when one
// exists. A failed profile read degrades to identity-only rather than
// failing the request.
func (d AuthDeps) me(w http.ResponseWriter, req *http.Request) {
	ident, ok := IdentityFrom(req.Context())
	if !ok {
		writeError(w, req, http.StatusUnauthorized, "missing_identity", "no verified caller")
		return
	}

	profile, err := d.Store.FetchUserProfile(req.Context(), ident.Sub)
	if err != nil {
		d.Log.Warn("profile lookup failed", "user_id", ident.Sub, "err", err)
		profile = nil
	}
	render.JSON(w, req, map[string]any{
		"id":      ident.Sub,
		"email":   ident.Email,
		"profile": profile,
	})
}
