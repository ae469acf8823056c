package aviationstack

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageBody = `{
  "pagination": {"offset": 0, "limit": 2, "count": 2, "total": 6711},
  "data": [
    {"id": "1", "iata_code": "BCN", "city_iata_code": "BCN", "airport_name": "El Prat", "country_name": "Spain", "phone_number": null},
    {"id": "2", "iata_code": "MAD", "city_iata_code": "MAD", "airport_name": "Barajas", "country_name": "Spain"}
  ]
}`

func intPtr(i int) *int { return &i }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(5*time.Second, WithBaseURL(srv.URL+"/v1/airports")), &calls
}

func TestFetchPage_Success(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/airports", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		assert.Equal(t, "10000", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(pageBody))
	})

	page, err := client.FetchPage(context.Background(), "secret", PageParams{Offset: intPtr(0), Limit: intPtr(10000)})
	require.NoError(t, err)
	assert.Equal(t, 6711, page.Total)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "BCN", page.Records[0].IATACode)
	assert.Nil(t, page.Records[0].PhoneNumber)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestFetchPage_OmitsUnsetPagination(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("offset"))
		assert.False(t, r.URL.Query().Has("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pageBody))
	})

	_, err := client.FetchPage(context.Background(), "secret", PageParams{})
	require.NoError(t, err)
}

func TestFetchPage_HTTPErrorIsNotRetried(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":"maintenance"}}`))
	})

	_, err := client.FetchPage(context.Background(), "secret", PageParams{})
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "Service Unavailable", httpErr.Status)
	assert.Contains(t, httpErr.BodySnippet, "maintenance")
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestFetchPage_HTMLIsFormatError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>invalid access key</body></html>"))
	})

	_, err := client.FetchPage(context.Background(), "bad", PageParams{})
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, "text/html", formatErr.ContentType)
	assert.Contains(t, formatErr.BodySnippet, "invalid access key")
	assert.Nil(t, formatErr.Err)
}

func TestFetchPage_MalformedJSONIsFormatError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pagination":`))
	})

	_, err := client.FetchPage(context.Background(), "secret", PageParams{})
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Error(t, formatErr.Err)
}

func TestFetchPage_SnippetIsTruncated(t *testing.T) {
	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write(long)
	})

	_, err := client.FetchPage(context.Background(), "secret", PageParams{})
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Len(t, httpErr.BodySnippet, maxSnippetLen)
}

func TestSnippet_KeepsRunesWhole(t *testing.T) {
	body := append(bytes.Repeat([]byte("x"), maxSnippetLen-1), []byte(strings.Repeat("é", 50))...)

	got := snippet(body)

	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, maxSnippetLen-1)
	assert.Equal(t, "ab", snippet([]byte("ab")))

	exact := bytes.Repeat([]byte("é"), maxSnippetLen/2+10)
	got = snippet(exact)
	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, maxSnippetLen)
}

func TestFetchPage_ValidatesArguments(t *testing.T) {
	client := New(time.Second, WithBaseURL("http://127.0.0.1:1"))

	_, err := client.FetchPage(context.Background(), "  ", PageParams{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = client.FetchPage(context.Background(), "key", PageParams{Offset: intPtr(-1)})
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, err = client.FetchPage(context.Background(), "key", PageParams{Limit: intPtr(-5)})
	assert.ErrorIs(t, err, ErrInvalidPagination)
}

func TestIsJSON(t *testing.T) {
	assert.True(t, isJSON("application/json"))
	assert.True(t, isJSON("application/json; charset=utf-8"))
	assert.True(t, isJSON("application/problem+json"))
	assert.False(t, isJSON("text/html; charset=utf-8"))
	assert.False(t, isJSON(""))
}
