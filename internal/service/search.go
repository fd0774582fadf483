package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/herroute/internal/apperr"
	"github.com/UnknownOlympus/herroute/internal/geocoding"
	"github.com/UnknownOlympus/herroute/internal/metrics"
	"github.com/UnknownOlympus/herroute/internal/models"
	"github.com/UnknownOlympus/herroute/internal/view"
)

// SearchService resolves free-text locations and moves a session's map to them.
type SearchService struct {
	log          *slog.Logger       // Logger for logging service activities
	provider     geocoding.Provider // Geocoding provider for external geocoding services
	providerName string             // Name of the provider for metrics labeling
	metrics      *metrics.Metrics   // Metrics for tracking service performance
}

// SearchResult is the outcome of a search that resolved.
type SearchResult struct {
	Center  models.Coordinates `json:"center"`
	Applied bool               `json:"applied"`
}

// NewSearchService creates a new instance of SearchService.
func NewSearchService(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
) *SearchService {
	return &SearchService{
		log:          log,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
	}
}

// Resolve turns a query into coordinates. The error carries an apperr kind:
// Validation for a blank query, NotFound when the provider has no match and
// FetchFailure for anything that went wrong on the way.
func (s *SearchService) Resolve(ctx context.Context, query string, lang models.Language) (models.Coordinates, error) {
	const op = "service.Resolve"

	query = strings.TrimSpace(query)
	if query == "" {
		s.metrics.GeocodeRequests.WithLabelValues("invalid").Inc()
		return models.Coordinates{}, apperr.Wrap(apperr.KindValidation, "search query is empty", geocoding.ErrEmptyQuery).
			WithOp(op)
	}

	startTime := time.Now()
	coords, err := s.provider.Geocode(ctx, query, lang)
	s.metrics.GeocodeSeconds.WithLabelValues(s.providerName).Observe(time.Since(startTime).Seconds())

	switch {
	case errors.Is(err, geocoding.ErrNotFound):
		s.log.InfoContext(ctx, "Location not found", "query", query)
		s.metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
		return models.Coordinates{}, apperr.Wrap(apperr.KindNotFound, "location not found", err).WithOp(op)
	case err != nil:
		s.log.ErrorContext(ctx, "Failed to geocode", "query", query, "provider", s.providerName, "error", err)
		s.metrics.GeocodeRequests.WithLabelValues("failure").Inc()
		return models.Coordinates{}, apperr.FetchFailure("geocoding request failed", err).WithOp(op)
	case coords == nil:
		s.metrics.GeocodeRequests.WithLabelValues("failure").Inc()
		return models.Coordinates{}, apperr.Internal("provider returned no coordinates", nil).WithOp(op)
	}

	s.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	s.log.DebugContext(ctx, "Location resolved", "query", query, "lat", coords.Latitude, "lon", coords.Longitude)

	return *coords, nil
}

// Search resolves query for the session behind ctrl. On failure the center is
// left alone. A result that arrives after a newer search was started is
// returned with Applied false and never touches the state.
func (s *SearchService) Search(ctx context.Context, ctrl *view.Controller, query string) (SearchResult, error) {
	lang := ctrl.State().Language
	token := ctrl.BeginSearch(query)

	coords, err := s.Resolve(ctx, query, lang)
	if err != nil {
		return SearchResult{}, err
	}

	applied := ctrl.CompleteSearch(token, coords)
	if !applied {
		s.metrics.StaleSearches.Inc()
		s.log.DebugContext(ctx, "Dropping stale search result", "query", query, "token", token)
	}

	return SearchResult{Center: coords, Applied: applied}, nil
}
