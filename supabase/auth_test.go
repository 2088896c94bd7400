package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyTokenResolvesIdentity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer jwt-abc", r.Header.Get("Authorization"))
		w.Write([]byte(`{"id":"u1","email":"ada@example.com","role":"authenticated"}`))
	}))
	defer srv.Close()

	ident, err := NewAuthClient(srv.URL, "anon-key").VerifyToken(context.Background(), "jwt-abc")
	require.NoError(t, err)
	assert.Equal(t, Identity{Sub: "u1", Email: "ada@example.com", Token: "jwt-abc"}, ident)
}

func TestVerifyTokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid JWT"}`))
	}))
	defer srv.Close()

	_, err := NewAuthClient(srv.URL, "anon").VerifyToken(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestVerifyTokenNotConfigured(t *testing.T) {
	_, err := NewAuthClient("", "").VerifyToken(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSignupSendsMetadata(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id":"u-new","email":"new@example.com"}`))
	}))
	defer srv.Close()

	status, data, err := NewAuthClient(srv.URL, "anon").Signup(context.Background(), "new@example.com", "hunter22", map[string]any{
		"first_name": "Ada",
		"role":       "user",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u-new", data["id"])

	assert.Equal(t, "new@example.com", got["email"])
	meta, ok := got["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ada", meta["first_name"])
}

func TestPasswordGrantEchoesUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
	}))
	defer srv.Close()

	status, data, err := NewAuthClient(srv.URL, "anon").PasswordGrant(context.Background(), "a@b.c", "wrong")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid login credentials", data["error_description"])
}

func TestRefreshGrant(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"access_token":"new-jwt"}`))
	}))
	defer srv.Close()

	status, data, err := NewAuthClient(srv.URL, "anon").RefreshGrant(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "new-jwt", data["access_token"])
	assert.Equal(t, "refresh-1", got["refresh_token"])
}
