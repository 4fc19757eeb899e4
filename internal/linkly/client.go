// Package linkly provides a client for the Linkly link-tracking API.
package linkly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/linkstat/internal/metrics"
	"github.com/theirongolddev/linkstat/internal/model"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultBaseURL is the public Linkly API root.
	DefaultBaseURL = "https://app.linklyhq.com/api/v1"

	requestTimeout = 10 * time.Second
	maxBodySize    = 8 << 20 // 8 MB, a full workspace export can be large
)

// Client fetches tracked links and daily traffic for one workspace.
type Client struct {
	apiKey      string
	workspaceID string
	baseURL     string
	timeout     time.Duration
	http        *http.Client
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client for the given credentials.
// Returns nil if either the key or the workspace ID is empty.
func NewClient(apiKey, workspaceID string, opts ...Option) *Client {
	apiKey = strings.TrimSpace(apiKey)
	workspaceID = strings.TrimSpace(workspaceID)
	if apiKey == "" || workspaceID == "" {
		return nil
	}
	c := &Client{
		apiKey:      apiKey,
		workspaceID: workspaceID,
		baseURL:     DefaultBaseURL,
		timeout:     requestTimeout,
		http:        &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListLinks returns every tracked link in the workspace with its lifetime clicks.
func (c *Client) ListLinks(ctx context.Context) ([]model.TrackedLink, error) {
	const op = "list links"

	path := "/workspace/" + url.PathEscape(c.workspaceID) + "/links/export"
	body, err := c.get(ctx, "links", op, path, url.Values{})
	if err != nil {
		return nil, err
	}

	var raw []linkExport
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ProviderError{Op: op, Err: fmt.Errorf("parsing links: %w", err)}
	}

	links := make([]model.TrackedLink, 0, len(raw))
	for _, l := range raw {
		link := model.TrackedLink{
			ID:   string(l.ID),
			Name: l.Name,
			URL:  l.URL,
		}
		if l.ClicksCount != nil && *l.ClicksCount > 0 {
			link.LifetimeClicks = *l.ClicksCount
		}
		if link.Name == "" {
			link.Name = link.URL
		}
		links = append(links, link)
	}
	return links, nil
}

// FetchTraffic returns the sparse daily clicks of one link over the window.
// Points with an unparseable date or an invalid count are dropped and logged.
func (c *Client) FetchTraffic(ctx context.Context, linkID string, w model.Window) ([]model.TrafficPoint, error) {
	op := "fetch traffic " + linkID

	q := url.Values{}
	q.Set("link_ids[]", linkID)
	q.Set("start", w.Start.Format(model.DateLayout))
	q.Set("end", w.End.Format(model.DateLayout))
	q.Set("workspace_id", c.workspaceID)

	path := "/workspace/" + url.PathEscape(c.workspaceID) + "/clicks"
	body, err := c.get(ctx, "clicks", op, path, q)
	if err != nil {
		return nil, err
	}

	var raw clicksResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ProviderError{Op: op, Err: fmt.Errorf("parsing traffic: %w", err)}
	}

	points := make([]model.TrafficPoint, 0, len(raw.Traffic))
	for i, elem := range raw.Traffic {
		p, shapeErr := convertPoint(linkID, i, elem)
		if shapeErr != nil {
			metrics.DroppedPointsTotal.Inc()
			log.Warn().Err(shapeErr).Str("link_id", linkID).Msg("dropping traffic point")
			continue
		}
		points = append(points, p)
	}
	return points, nil
}

// convertPoint decodes and validates one raw traffic element.
func convertPoint(linkID string, idx int, elem json.RawMessage) (model.TrafficPoint, error) {
	var tp trafficPoint
	if err := json.Unmarshal(elem, &tp); err != nil {
		return model.TrafficPoint{}, &DataShapeError{LinkID: linkID, Index: idx, Raw: string(elem), Err: fmt.Errorf("%w: %v", ErrBadPoint, err)}
	}
	day, err := model.ParseDay(tp.T)
	if err != nil {
		return model.TrafficPoint{}, &DataShapeError{LinkID: linkID, Index: idx, Raw: tp.T, Err: fmt.Errorf("%w: %v", ErrBadPoint, err)}
	}
	n, err := strconv.ParseInt(tp.Y.String(), 10, 64)
	if err != nil {
		return model.TrafficPoint{}, &DataShapeError{LinkID: linkID, Index: idx, Raw: tp.Y.String(), Err: fmt.Errorf("%w: count is not an integer", ErrBadPoint)}
	}
	if n < 0 {
		return model.TrafficPoint{}, &DataShapeError{LinkID: linkID, Index: idx, Raw: tp.Y.String(), Err: fmt.Errorf("%w: negative count", ErrBadPoint)}
	}
	return model.TrafficPoint{Day: day, Count: n}, nil
}

// get performs an authenticated GET request and returns the response body.
// endpoint labels metrics; op names the call in errors.
func (c *Client) get(ctx context.Context, endpoint, op, path string, q url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	status := "error"
	defer func() {
		metrics.ProviderRequestsTotal.WithLabelValues(endpoint, status).Inc()
		metrics.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	q.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &ProviderError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "github.com/theirongolddev/linkstat/1.0")

	//nolint:gosec // URL is built from the configured base URL
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			status = "timeout"
		}
		return nil, &ProviderError{Op: op, Err: redact(err, c.apiKey)}
	}
	defer func() { _ = resp.Body.Close() }()

	status = strconv.Itoa(resp.StatusCode)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &ProviderError{Op: op, Status: resp.StatusCode, Err: ErrUnauthorized}
	case http.StatusTooManyRequests:
		return nil, &ProviderError{Op: op, Status: resp.StatusCode, Err: ErrRateLimited}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{Op: op, Status: resp.StatusCode, Err: errors.New("unexpected status")}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &ProviderError{Op: op, Err: fmt.Errorf("reading response: %w", err)}
	}
	return body, nil
}

// redact strips the API key from transport errors, which embed the request URL.
func redact(err error, apiKey string) error {
	msg := err.Error()
	if apiKey == "" || !strings.Contains(msg, apiKey) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(msg, apiKey, "REDACTED"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
