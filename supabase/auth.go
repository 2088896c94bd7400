package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized means the bearer token did not resolve to a user.
var ErrUnauthorized = errors.New("invalid or expired token")

// Identity is a verified caller: the auth subject id, email, and the
// bearer token it was verified from. The token travels with the
// identity because collection calls forward it to the row store.
type Identity struct {
	Sub   string
	Email string
	Token string
}

// TokenVerifier resolves a bearer token to an Identity. Handlers take
// the interface so tests can stub verification.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (Identity, error)
}

// AuthClient fronts the GoTrue endpoints under /auth/v1.
type AuthClient struct {
	baseURL string
	anonKey string
	http    *http.Client
}

func NewAuthClient(baseURL, anonKey string) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *AuthClient) Configured() bool { return c.baseURL != "" && c.anonKey != "" }

// VerifyToken asks the auth service who the token belongs to. Any
// non-200 answer means the token is no good.
func (c *AuthClient) VerifyToken(ctx context.Context, token string) (Identity, error) {
	if !c.Configured() {
		return Identity{}, ErrNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Identity{}, ErrUnauthorized
	}

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil || user.ID == "" {
		return Identity{}, ErrUnauthorized
	}
	return Identity{Sub: user.ID, Email: user.Email, Token: token}, nil
}

// Signup registers a new user; profile fields ride along as GoTrue
// user metadata. The upstream status and body are handed back for the
// handler to echo.
func (c *AuthClient) Signup(ctx context.Context, email, password string, metadata map[string]any) (int, map[string]any, error) {
	return c.postJSON(ctx, "/auth/v1/signup", map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	})
}

// PasswordGrant exchanges credentials for a token pair.
func (c *AuthClient) PasswordGrant(ctx context.Context, email, password string) (int, map[string]any, error) {
	return c.postJSON(ctx, "/auth/v1/token?grant_type=password", map[string]any{
		"email":    email,
		"password": password,
	})
}

// RefreshGrant exchanges a refresh token for a fresh pair.
func (c *AuthClient) RefreshGrant(ctx context.Context, refreshToken string) (int, map[string]any, error) {
	return c.postJSON(ctx, "/auth/v1/token?grant_type=refresh_token", map[string]any{
		"refresh_token": refreshToken,
	})
}

func (c *AuthClient) postJSON(ctx context.Context, path string, payload any) (int, map[string]any, error) {
	if !c.Configured() {
		return 0, nil, ErrNotConfigured
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &UpstreamError{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	data := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			return 0, nil, &UpstreamError{StatusCode: resp.StatusCode, Body: fmt.Sprintf("bad auth payload: %v", err)}
		}
	}
	return resp.StatusCode, data, nil
}
