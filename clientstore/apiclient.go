package clientstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/jhonatancruzmail/SkyConnectExplorer/airports"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/buildinfo"
)

// ErrUnexpectedStatus is returned when the airports endpoint answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("API error")

// Fetcher loads the full airport list from the internal API.
type Fetcher interface {
	FetchAll(ctx context.Context) (airports.Page, error)
}

// APIClient calls GET /api/airports on a SkyConnect server.
type APIClient struct {
	baseURL string
	client  *retryablehttp.Client
}

// NewAPIClient returns a client for the server at baseURL. Requests are
// attempted once; retrying is left to the user.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = nil
	rc.CheckRetry = func(ctx context.Context, _ *http.Response, _ error) (bool, error) {
		return false, ctx.Err()
	}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if timeout > 0 {
		rc.HTTPClient.Timeout = timeout
	}

	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  rc,
	}
}

type airportsResponse struct {
	Airports []airports.Airport `json:"airports"`
	Total    int                `json:"total"`
	Error    string             `json:"error,omitempty"`
}

// FetchAll returns every airport known to the server together with its total.
func (c *APIClient) FetchAll(ctx context.Context) (airports.Page, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/airports", nil)
	if err != nil {
		return airports.Page{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("User-Agent", buildinfo.UserAgent("client"))

	resp, err := c.client.Do(req)
	if err != nil {
		return airports.Page{}, fmt.Errorf("error fetching airports from API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return airports.Page{}, fmt.Errorf("failed to read airports response: %w", err)
	}

	var payload airportsResponse
	decodeErr := json.Unmarshal(body, &payload)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && payload.Error != "" {
			return airports.Page{}, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, payload.Error)
		}
		return airports.Page{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	if decodeErr != nil {
		return airports.Page{}, fmt.Errorf("failed to decode airports response: %w", decodeErr)
	}

	return airports.Page{Airports: payload.Airports, Total: payload.Total}, nil
}
