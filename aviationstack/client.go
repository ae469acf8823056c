// Package aviationstack is a minimal client for the Aviationstack airports endpoint.
package aviationstack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/jhonatancruzmail/SkyConnectExplorer/airports"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/buildinfo"
)

// DefaultBaseURL is the public airports endpoint.
const DefaultBaseURL = "http://api.aviationstack.com/v1/airports"

type httpClient interface {
	Do(req *retryablehttp.Request) (*http.Response, error)
}

// PageParams selects a window of the provider's airport list. Nil fields are
// omitted from the request.
type PageParams struct {
	Offset *int
	Limit  *int
}

// ProviderPage is a single page of raw provider records.
type ProviderPage struct {
	Records []airports.ProviderAirport
	Total   int
}

// Client fetches airport pages from Aviationstack. It makes a single attempt
// per call; deciding what to do on failure is left to the caller.
type Client struct {
	baseURL string
	client  httpClient
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(hc httpClient) Option {
	return func(c *Client) {
		c.client = hc
	}
}

func noRetryPolicy(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return false, nil
}

// New creates a Client with the given request timeout.
func New(timeout time.Duration, opts ...Option) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = nil
	rc.CheckRetry = noRetryPolicy
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if timeout > 0 {
		rc.HTTPClient.Timeout = timeout
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		client:  rc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage requests one page of airports.
func (c *Client) FetchPage(ctx context.Context, apiKey string, params PageParams) (*ProviderPage, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if (params.Offset != nil && *params.Offset < 0) || (params.Limit != nil && *params.Limit < 0) {
		return nil, ErrInvalidPagination
	}

	reqURL, err := c.buildURL(apiKey, params)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("aviationstack: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent("server"))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aviationstack: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("aviationstack: failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			StatusCode:  resp.StatusCode,
			Status:      http.StatusText(resp.StatusCode),
			BodySnippet: snippet(body),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if !isJSON(contentType) {
		return nil, &FormatError{ContentType: contentType, BodySnippet: snippet(body)}
	}

	var payload airports.ProviderResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &FormatError{ContentType: contentType, BodySnippet: snippet(body), Err: err}
	}

	return &ProviderPage{
		Records: payload.Data,
		Total:   payload.Pagination.Total,
	}, nil
}

func (c *Client) buildURL(apiKey string, params PageParams) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("aviationstack: invalid base url: %w", err)
	}

	q := u.Query()
	q.Set("access_key", apiKey)
	if params.Offset != nil {
		q.Set("offset", strconv.Itoa(*params.Offset))
	}
	if params.Limit != nil {
		q.Set("limit", strconv.Itoa(*params.Limit))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
