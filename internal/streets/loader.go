package streets

import (
	"context"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/herroute/internal/metrics"
)

// Loader fills the store from a source, once at start and optionally on an interval.
type Loader struct {
	source   Source
	store    *Store
	log      *slog.Logger
	metrics  *metrics.Metrics
	interval time.Duration
	name     string
}

// NewLoader creates a loader. An interval of zero or less means a single load.
func NewLoader(
	source Source,
	sourceName string,
	store *Store,
	log *slog.Logger,
	metrics *metrics.Metrics,
	interval time.Duration,
) *Loader {
	return &Loader{
		source:   source,
		store:    store,
		log:      log,
		metrics:  metrics,
		interval: interval,
		name:     sourceName,
	}
}

// Load performs one fetch. Failures are logged and counted and leave the
// store untouched; the map then renders without overlays.
func (l *Loader) Load(ctx context.Context) error {
	token := l.store.Begin()

	records, err := l.source.FetchStreets(ctx)
	if err != nil {
		l.log.ErrorContext(ctx, "Error fetching street data", "source", l.name, "error", err)
		l.metrics.StreetLoads.WithLabelValues("failure").Inc()
		return err
	}

	if !l.store.Commit(token, records) {
		l.log.DebugContext(ctx, "Discarding street data from an older load", "token", token)
		l.metrics.StreetLoads.WithLabelValues("stale").Inc()
		return nil
	}

	l.metrics.StreetLoads.WithLabelValues("success").Inc()
	l.metrics.StreetsLoaded.Set(float64(len(records)))
	l.log.InfoContext(ctx, "Street data loaded", "source", l.name, "streets", len(records))

	return nil
}

// Run loads once and, when an interval is configured, keeps refreshing until
// the context is cancelled.
func (l *Loader) Run(ctx context.Context) {
	_ = l.Load(ctx)

	if l.interval <= 0 {
		return
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.InfoContext(ctx, "Street loader stopped.")
			return
		case <-ticker.C:
			l.log.DebugContext(ctx, "Refreshing street data...")
			_ = l.Load(ctx)
		}
	}
}
