package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Resource names for the two collection tables the API fronts.
const (
	ResourceCart     = "cart"
	ResourceWishlist = "wishlist"
)

var (
	// ErrNotConfigured means SUPABASE_URL or the anon key is missing;
	// callers surface it as 503.
	ErrNotConfigured = errors.New("supabase not configured")
	// ErrIntegrity means the store returned rows for a different user.
	// That indicates a store-side policy failure, so callers abort and
	// return no data at all.
	ErrIntegrity = errors.New("row store returned rows for another user")
)

// UpstreamError carries the row store's own status and body for the
// handler to echo.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("supabase error %d: %s", e.StatusCode, e.Body)
}

// Entry is one (user, property) row as stored.
type Entry struct {
	UserID     string `json:"user_id"`
	PropertyID string `json:"property_id"`
}

// RowStore talks to the PostgREST surface. Every collection call sends
// the project anon key plus the caller's own bearer token, so the
// store's row-level security stays in the authorization path alongside
// the application-side user check.
type RowStore struct {
	baseURL    string
	anonKey    string
	serviceKey string
	http       *http.Client
}

func NewRowStore(baseURL, anonKey, serviceKey string) *RowStore {
	return &RowStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *RowStore) Configured() bool { return s.baseURL != "" && s.anonKey != "" }

func (s *RowStore) auth(req *http.Request, bearer string) {
	req.Header.Set("apikey", s.anonKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
}

// AddItem inserts one row. A duplicate-key conflict from the store is
// idempotent success, reported via alreadyPresent.
func (s *RowStore) AddItem(ctx context.Context, resource, userID, propertyID, bearer string) (alreadyPresent bool, err error) {
	if !s.Configured() {
		return false, ErrNotConfigured
	}
	payload, _ := json.Marshal(Entry{UserID: userID, PropertyID: propertyID})
	u := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	s.auth(req, bearer)

	resp, err := s.http.Do(req)
	if err != nil {
		return false, &UpstreamError{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return false, nil
	case http.StatusConflict:
		return true, nil
	default:
		return false, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
}

// RemoveItem deletes the matching row. The store answers the same way
// whether or not the row existed, which keeps removal idempotent.
func (s *RowStore) RemoveItem(ctx context.Context, resource, userID, propertyID, bearer string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	q.Set("property_id", "eq."+propertyID)
	u := fmt.Sprintf("%s/rest/v1/%s?%s", s.baseURL, resource, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	s.auth(req, bearer)

	resp, err := s.http.Do(req)
	if err != nil {
		return &UpstreamError{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// ListItems returns the caller's property ids in store order. Every
// returned row is checked against userID; one foreign row fails the
// whole call with ErrIntegrity rather than filtering it out.
func (s *RowStore) ListItems(ctx context.Context, resource, userID, bearer string) ([]string, error) {
	if !s.Configured() {
		return nil, ErrNotConfigured
	}
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	u := fmt.Sprintf("%s/rest/v1/%s?%s", s.baseURL, resource, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	s.auth(req, bearer)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	var rows []Entry
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusBadGateway, Body: fmt.Sprintf("bad row payload: %v", err)}
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.UserID != userID {
			return nil, ErrIntegrity
		}
		ids = append(ids, row.PropertyID)
	}
	return ids, nil
}

// ClearItems removes every row the caller has in the resource.
func (s *RowStore) ClearItems(ctx context.Context, resource, userID, bearer string) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	q := url.Values{}
	q.Set("user_id", "eq."+userID)
	u := fmt.Sprintf("%s/rest/v1/%s?%s", s.baseURL, resource, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	s.auth(req, bearer)

	resp, err := s.http.Do(req)
	if err != nil {
		return &UpstreamError{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// FetchUserProfile reads the caller's row from the users table. The
// service-role key is preferred because that table is not open to anon
// reads on every deployment; absent both row and error it returns nil.
func (s *RowStore) FetchUserProfile(ctx context.Context, userID string) (map[string]any, error) {
	if s.baseURL == "" {
		return nil, ErrNotConfigured
	}
	key := s.serviceKey
	if key == "" {
		key = s.anonKey
	}
	q := url.Values{}
	q.Set("id", "eq."+userID)
	q.Set("select", "*")
	u := fmt.Sprintf("%s/rest/v1/users?%s", s.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusBadGateway, Body: fmt.Sprintf("bad user payload: %v", err)}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
