// Package transport holds the outbound HTTP plumbing shared by the geocoding
// providers and the street source.
package transport

import (
	"io"
	"net/http"
	"time"
)

// ErrorBodyLimit caps how much of a non-200 response body is kept for errors and logs.
const ErrorBodyLimit = 512

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns a client whose requests are bounded by timeout.
// A non-positive timeout leaves requests unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		return &http.Client{}
	}
	return &http.Client{Timeout: timeout}
}

// ErrorBody reads at most ErrorBodyLimit bytes from r.
func ErrorBody(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, ErrorBodyLimit))
	return string(body)
}
