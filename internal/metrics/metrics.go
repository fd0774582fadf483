package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	GeocodeRequests *prometheus.CounterVec
	GeocodeSeconds  *prometheus.HistogramVec
	StaleSearches   prometheus.Counter
	StreetLoads     *prometheus.CounterVec
	StreetsLoaded   prometheus.Gauge
	ActiveSessions  prometheus.Gauge
	ContactMessages prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		GeocodeRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "herroute_geocode_requests_total",
			Help: "Total number of location searches by outcome.",
		}, []string{"status"}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "herroute_geocode_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		StaleSearches: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "herroute_stale_search_responses_total",
			Help: "Search responses dropped because a newer search was already issued.",
		}),
		StreetLoads: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "herroute_street_loads_total",
			Help: "Total number of street data loads by outcome.",
		}, []string{"status"}),
		StreetsLoaded: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "herroute_streets_loaded",
			Help: "Number of street records currently held in memory.",
		}),
		ActiveSessions: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "herroute_active_sessions",
			Help: "Current number of browser sessions with view state.",
		}),
		ContactMessages: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "herroute_contact_messages_total",
			Help: "Total number of accepted contact form messages.",
		}),
	}
}
