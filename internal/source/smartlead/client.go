// Package smartlead is a client for the Smartlead email-accounts REST API.
package smartlead

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Smartlead REST API root.
const DefaultBaseURL = "https://server.smartlead.ai/api/v1"

// DefaultPageSize is the number of accounts requested per page.
const DefaultPageSize = 100

// Options configures a Client.
type Options struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string

	// APIKey is sent as the api_key query parameter.
	APIKey string

	// PageSize overrides DefaultPageSize.
	PageSize int

	// Timeout bounds each HTTP request. Zero leaves the transport default.
	Timeout time.Duration

	// RequestsPerSecond paces outgoing requests. Zero or less disables pacing.
	RequestsPerSecond float64

	// HTTPClient replaces the default client, mainly for tests.
	HTTPClient *http.Client
}

// Client is a thin HTTP client for the Smartlead email-accounts API.
// Requests are issued one at a time and never retried.
type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Smartlead client from opts.
func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     opts.APIKey,
		pageSize:   pageSize,
		httpClient: hc,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// PageSize returns the number of records requested per page.
func (c *Client) PageSize() int {
	return c.pageSize
}

// get performs a GET against path with the credential and extra query
// parameters attached, and returns the body of a 2xx response. Non-2xx
// responses become *APIError with the message chosen by describe.
func (c *Client) get(
	ctx context.Context,
	path string,
	params url.Values,
	describe func(resp *http.Response, body []byte) string,
) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request GET %s: %w", path, redactError(err, c.apiKey))
	}

	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    describe(resp, body),
		}
	}

	return body, nil
}

// redactError keeps the API key out of transport errors, which embed the
// request URL.
func redactError(err error, apiKey string) error {
	if apiKey == "" {
		return err
	}
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return &url.Error{
			Op:  uerr.Op,
			URL: strings.ReplaceAll(uerr.URL, url.QueryEscape(apiKey), "REDACTED"),
			Err: uerr.Err,
		}
	}
	return err
}
