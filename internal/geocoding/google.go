package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/herroute/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// zeroResultsStatus is the API status the maps client turns into an error when nothing matched.
const zeroResultsStatus = "ZERO_RESULTS"

// NewGoogleProvider wraps an already configured Google Maps client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode takes a context and a query string as input, and returns the geographical coordinates
// of the first match using the Google Maps Geocoding API. A ZERO_RESULTS status and an empty
// result list both report ErrNotFound.
func (gp *GoogleProvider) Geocode(
	ctx context.Context,
	query string,
	lang models.Language,
) (*models.Coordinates, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "query", query, "lang", lang)

	req := maps.GeocodingRequest{Address: query, Language: string(lang)}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		if strings.Contains(err.Error(), zeroResultsStatus) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to geocode query: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrNotFound
	}
	location := geocodeResponse[0].Geometry.Location

	coords := models.Coordinates{Latitude: location.Lat, Longitude: location.Lng}
	if err = coords.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCoords, err)
	}

	return &coords, nil
}
