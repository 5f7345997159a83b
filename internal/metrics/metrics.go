// Package metrics holds the Prometheus instrumentation for the recommender.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookrec_recommendations_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"mode", "outcome"}, // mode: "similar", "genres"; outcome: "ok", "invalid", "not_found", "ambiguous", "error"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookrec_recommendation_duration_seconds",
			Help:    "Time spent scoring and ranking one recommendation query",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
		[]string{"mode"},
	)

	TitleResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookrec_title_resolutions_total",
			Help: "Total number of free-text title resolutions",
		},
		[]string{"result"}, // "exact", "fuzzy", "ambiguous", "none"
	)

	// Cover Lookup Metrics
	CoverLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookrec_cover_lookups_total",
			Help: "Total number of cover lookups",
		},
		[]string{"result"}, // "hit", "found", "placeholder"
	)

	CoverCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookrec_cover_circuit_state",
			Help: "Cover lookup circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// Catalog Metrics
	CatalogBooks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookrec_catalog_books",
			Help: "Number of books in the loaded catalog",
		},
	)

	CatalogGenres = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookrec_catalog_genres",
			Help: "Number of genre labels in the fitted vocabulary",
		},
	)

	CatalogDuplicateTitles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookrec_catalog_duplicate_titles",
			Help: "Number of catalog rows whose title repeats an earlier row",
		},
	)

	// API Metrics
	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookrec_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
	)
)

// RecordRecommendation records one recommendation query.
func RecordRecommendation(mode, outcome string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(mode, outcome).Inc()
	RecommendationDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordTitleResolution records how a free-text title was resolved.
func RecordTitleResolution(result string) {
	TitleResolutions.WithLabelValues(result).Inc()
}

// RecordCoverLookup records one cover lookup.
func RecordCoverLookup(result string) {
	CoverLookups.WithLabelValues(result).Inc()
}

// SetCatalog publishes the size of the loaded catalog.
func SetCatalog(books, genres, duplicateTitles int) {
	CatalogBooks.Set(float64(books))
	CatalogGenres.Set(float64(genres))
	CatalogDuplicateTitles.Set(float64(duplicateTitles))
}
