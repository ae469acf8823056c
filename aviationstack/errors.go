package aviationstack

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const maxSnippetLen = 200

var (
	// ErrMissingAPIKey is returned when FetchPage is called without an access key.
	ErrMissingAPIKey = errors.New("aviationstack: api key is required")
	// ErrInvalidPagination is returned for negative offset or limit values.
	ErrInvalidPagination = errors.New("aviationstack: offset and limit must be non-negative")
)

// HTTPError reports a non-2xx response from the provider.
type HTTPError struct {
	StatusCode  int
	Status      string
	BodySnippet string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("aviationstack API error: %d %s", e.StatusCode, e.Status)
}

// FormatError reports a response that is not JSON or cannot be decoded.
// A common cause is an HTML page served for an invalid access key.
type FormatError struct {
	ContentType string
	BodySnippet string
	Err         error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("aviationstack: malformed response (content-type %q): %v", e.ContentType, e.Err)
	}
	return fmt.Sprintf("aviationstack: unexpected content-type %q", e.ContentType)
}

func (e *FormatError) Unwrap() error { return e.Err }

// snippet truncates body to at most maxSnippetLen bytes without splitting a rune.
func snippet(body []byte) string {
	if len(body) <= maxSnippetLen {
		return string(body)
	}
	cut := maxSnippetLen
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut])
}
