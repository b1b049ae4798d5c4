// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orcid reads a researcher's works from the ORCID public API.
package orcid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/orcid-bib/internal/httputil"
	"github.com/pdiddy/orcid-bib/pkg/types"
)

// StatusError reports a non-2xx response from the ORCID API.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("ORCID API returned HTTP %d for %s: %s", e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("ORCID API returned HTTP %d for %s", e.StatusCode, e.URL)
}

// Client is a rate-limited client for one ORCID record.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	baseURL     string
	orcidID     string
	userAgent   string
	accessToken string
	maxRetries  int
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets the API root (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithRateLimit sets the maximum requests per second. Non-positive values
// disable limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) { c.userAgent = ua }
}

// WithAccessToken sends the token as a bearer credential.
func WithAccessToken(token string) ClientOption {
	return func(c *Client) { c.accessToken = token }
}

// WithMaxRetries enables retries on HTTP 429.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) { c.maxRetries = n }
}

// NewClient creates a client for the given ORCID iD.
func NewClient(orcidID string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: types.DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(types.DefaultRateLimit), 1),
		baseURL:    types.DefaultBaseURL,
		orcidID:    orcidID,
		userAgent:  types.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig builds a client from a FetchConfig.
func NewClientFromConfig(cfg types.FetchConfig) *Client {
	return NewClient(cfg.ORCIDID,
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithBaseURL(cfg.BaseURL),
		WithRateLimit(cfg.RateLimit),
		WithUserAgent(cfg.UserAgent),
		WithAccessToken(cfg.AccessToken),
		WithMaxRetries(cfg.MaxRetries),
	)
}

// ListWorks returns one summary per work group, in the order ORCID lists
// them. Groups without a summary are skipped.
func (c *Client) ListWorks(ctx context.Context) ([]types.WorkSummary, error) {
	var resp worksResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s/works", c.baseURL, c.orcidID), &resp); err != nil {
		return nil, fmt.Errorf("listing works: %w", err)
	}

	summaries := make([]types.WorkSummary, 0, len(resp.Group))
	for _, g := range resp.Group {
		if len(g.WorkSummary) == 0 {
			continue
		}
		summaries = append(summaries, g.WorkSummary[0].toType())
	}
	return summaries, nil
}

// GetWork fetches the full record of one work.
func (c *Client) GetWork(ctx context.Context, putCode int64) (*types.WorkDetail, error) {
	var resp workResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s/work/%d", c.baseURL, c.orcidID, putCode), &resp); err != nil {
		return nil, fmt.Errorf("fetching work %d: %w", putCode, err)
	}
	d := resp.toType()
	if d.PutCode == 0 {
		d.PutCode = putCode
	}
	return d, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return fmt.Errorf("ORCID API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing ORCID response: %w", err)
	}
	return nil
}
