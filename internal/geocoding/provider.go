package geocoding

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/herroute/internal/models"
)

// Provider is an interface that defines a method for geocoding a free-text query.
// The Geocode method takes a context, the query and the language results should be
// localized in, and returns the coordinates of the first match.
type Provider interface {
	Geocode(ctx context.Context, query string, lang models.Language) (*models.Coordinates, error)
}

// Errors shared by every provider.
var (
	// ErrNotFound is returned when the provider answered but had no match for the query.
	ErrNotFound = errors.New("geocoder returned no match")
	// ErrInvalidCoords is returned when the first match carries unusable coordinates.
	ErrInvalidCoords = errors.New("geocoder returned invalid coordinates")
	// ErrEmptyQuery is returned before any request is made for a blank query.
	ErrEmptyQuery = errors.New("geocoding query is empty")
)
