// Package streets loads scored street segments and keeps the latest complete
// set in memory for the renderer.
package streets

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/herroute/internal/models"
)

// Source is anything that can produce the full list of scored streets.
type Source interface {
	FetchStreets(ctx context.Context) ([]models.StreetRecord, error)
}

// ErrMalformedPayload is returned when the street payload cannot be used as a whole.
var ErrMalformedPayload = errors.New("malformed street payload")

type unavailable struct {
	err error
}

// Unavailable returns a Source that always fails with err. It stands in for a
// source that could not be set up, so the service still starts with an empty map.
func Unavailable(err error) Source {
	return unavailable{err: err}
}

func (u unavailable) FetchStreets(context.Context) ([]models.StreetRecord, error) {
	return nil, fmt.Errorf("street source unavailable: %w", u.err)
}
