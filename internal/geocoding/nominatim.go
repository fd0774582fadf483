package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/herroute/internal/models"
	"github.com/UnknownOlympus/herroute/internal/transport"
	"golang.org/x/time/rate"
)

const (
	// NominatimBaseURL is the public OpenStreetMap search endpoint.
	NominatimBaseURL = "https://nominatim.openstreetmap.org/search"
	// DefaultUserAgent identifies the service to Nominatim as its usage policy requires.
	DefaultUserAgent = "HerRoute/1.0 (https://github.com/UnknownOlympus/herroute)"
)

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// This is a free geocoding service with usage limits (1 request/second for fair use).
type NominatimProvider struct {
	client    HTTPClient    // HTTP client for making requests
	baseURL   string        // Base URL for the Nominatim API
	userAgent string        // userAgent is required by Nominatim usage policy
	limiter   *rate.Limiter // Keeps the service inside the fair-use limit
	log       *slog.Logger  // Logger for logging operations
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient = transport.HTTPClient

// nominatimResponse represents the JSON response from Nominatim API.
type nominatimResponse struct {
	Lat string `json:"lat"` // Latitude as string
	Lon string `json:"lon"` // Longitude as string
}

// NewNominatimProvider creates a new Nominatim geocoding provider against the public endpoint.
// rateLimit is in requests per second; zero or less falls back to the fair-use value of one.
func NewNominatimProvider(userAgent string, rateLimit int, timeout time.Duration, log *slog.Logger) *NominatimProvider {
	if rateLimit <= 0 {
		rateLimit = 1
	}

	return NewNominatimProviderWithClient(
		transport.NewHTTPClient(timeout),
		userAgent,
		rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		log,
	)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client and limiter.
// Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(
	client HTTPClient,
	userAgent string,
	limiter *rate.Limiter,
	log *slog.Logger,
) *NominatimProvider {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &NominatimProvider{
		client:    client,
		baseURL:   NominatimBaseURL,
		userAgent: userAgent,
		limiter:   limiter,
		log:       log,
	}
}

// Geocode converts a free-text query to the coordinates of the first Nominatim match.
// A single request is made; an empty result set is reported as ErrNotFound.
func (np *NominatimProvider) Geocode(
	ctx context.Context,
	query string,
	lang models.Language,
) (*models.Coordinates, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	np.log.DebugContext(ctx, "Geocoding using Nominatim", "query", query, "lang", lang)

	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	if lang == "" {
		lang = models.English
	}

	params := reqURL.Query()
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1") // Only the first match is used
	params.Set("accept-language", string(lang))
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", np.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := transport.ErrorBody(resp.Body)
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", body)
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, body)
	}

	var results []nominatimResponse
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err)
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrNotFound
	}

	np.log.DebugContext(ctx, "Nominatim found result", "lat", results[0].Lat, "lon", results[0].Lon)

	lat, err := strconv.ParseFloat(strings.TrimSpace(results[0].Lat), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrInvalidCoords, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(results[0].Lon), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrInvalidCoords, results[0].Lon)
	}

	coords := models.Coordinates{Latitude: lat, Longitude: lon}
	if err = coords.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCoords, err)
	}

	return &coords, nil
}
