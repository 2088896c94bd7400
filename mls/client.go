package mls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrNotConfigured means the base URL or bearer token is missing;
	// callers surface it as 503 rather than failing startup.
	ErrNotConfigured = errors.New("mls not configured")
	// ErrNotFound means a key lookup matched no listing.
	ErrNotFound = errors.New("property not found")
)

// UpstreamError carries the listing API's own status and body so the
// handler can echo them instead of inventing a new failure shape.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("mls error %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(baseURL, token string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

func (c *Client) Configured() bool { return c.baseURL != "" && c.token != "" }

// get issues one authenticated call and decodes the OData envelope.
// The feed never paginates past $top for us, so the whole payload is
// read at once behind a size guard.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]RawListing, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		// timeouts and transport errors count as upstream failures
		return nil, &UpstreamError{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := readAllLimit(resp.Body, 8<<20)
	if err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}
	if resp.StatusCode >= 400 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope struct {
		Value []RawListing `json:"value"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusBadGateway, Body: fmt.Sprintf("bad envelope: %v", err)}
	}
	if envelope.Value == nil {
		return []RawListing{}, nil
	}
	return envelope.Value, nil
}

// FetchListings runs a /Property query and returns the raw records.
func (c *Client) FetchListings(ctx context.Context, query ListingQuery) ([]RawListing, error) {
	q := url.Values{}
	q.Set("$top", strconv.Itoa(query.Top))
	if query.Filter != "" {
		q.Set("$filter", query.Filter)
	}
	if query.Select != "" {
		q.Set("$select", query.Select)
	}
	return c.get(ctx, "/Property", q)
}

// FetchListing looks up a single record by listing key.
func (c *Client) FetchListing(ctx context.Context, listingKey string) (RawListing, error) {
	q := url.Values{}
	q.Set("$filter", KeyFilter(listingKey))
	rows, err := c.get(ctx, "/Property", q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// FetchMedia returns the large-photo URLs for one listing in upstream
// order. Media is best-effort: any failure logs and yields an empty
// slice so a broken photo feed never blocks listing delivery.
func (c *Client) FetchMedia(ctx context.Context, listingKey string) []string {
	q := url.Values{}
	q.Set("$filter", MediaFilter(listingKey))
	q.Set("$orderby", "Order")

	rows, err := c.get(ctx, "/Media", q)
	if err != nil {
		c.log.Warn("media fetch failed", "listing_key", listingKey, "err", err)
		return []string{}
	}
	urls := make([]string, 0, len(rows))
	for _, row := range rows {
		if u, ok := row["MediaURL"].(string); ok && u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func readAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
