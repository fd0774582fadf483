package streets

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/UnknownOlympus/herroute/internal/models"
	"github.com/UnknownOlympus/herroute/internal/transport"
)

// streetsPath is appended to the backend base URL.
const streetsPath = "/api/streets"

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient = transport.HTTPClient

// HTTPSource fetches street records from the scoring backend.
type HTTPSource struct {
	client  HTTPClient
	baseURL string
	log     *slog.Logger
}

// NewHTTPSource creates a source for <baseURL>/api/streets with a plain HTTP client.
func NewHTTPSource(baseURL string, timeout time.Duration, log *slog.Logger) *HTTPSource {
	return NewHTTPSourceWithClient(transport.NewHTTPClient(timeout), baseURL, log)
}

// NewHTTPSourceWithClient creates a source with a custom HTTP client.
func NewHTTPSourceWithClient(client HTTPClient, baseURL string, log *slog.Logger) *HTTPSource {
	return &HTTPSource{client: client, baseURL: baseURL, log: log}
}

// FetchStreets downloads and validates the whole street list. A single invalid
// record rejects the payload, so callers never see a partial set.
func (s *HTTPSource) FetchStreets(ctx context.Context) ([]models.StreetRecord, error) {
	reqURL, err := url.JoinPath(s.baseURL, streetsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build streets URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	s.log.DebugContext(ctx, "Fetching street data", "url", reqURL)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute streets request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("streets API returned status %d: %s", resp.StatusCode, transport.ErrorBody(resp.Body))
	}

	var records []models.StreetRecord
	if err = json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: payload is not an array", ErrMalformedPayload)
	}

	for i := range records {
		if err = records[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrMalformedPayload, i, err)
		}
	}

	return records, nil
}
