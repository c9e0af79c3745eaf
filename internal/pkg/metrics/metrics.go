// Package metrics defines and registers all custom Prometheus metrics for the
// Greenbook API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed on /metrics by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "greenbook"

// ── Ingestion metrics ─────────────────────────────────────────────────────────

// PlantsIngestedTotal counts plants persisted by random-page ingestion.
// Label:
//   - image: "true" when an image was stored with the plant, "false" otherwise
var PlantsIngestedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plants_ingested_total",
		Help:      "Total number of plants added by catalogue ingestion.",
	},
	[]string{"image"},
)

// IngestionRunsTotal counts ingestion runs by outcome.
// Label:
//   - result: "success", "upstream_error", "conflict" or "error"
var IngestionRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingestion_runs_total",
		Help:      "Total number of catalogue ingestion runs, labelled by result.",
	},
	[]string{"result"},
)

// IngestionDuration measures a whole ingestion run including image downloads.
var IngestionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of catalogue ingestion runs.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	},
)

// ImageDownloadsTotal counts image download attempts.
// Label:
//   - result: "stored", "bad_status", "bad_content_type", "error"
var ImageDownloadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_downloads_total",
		Help:      "Total number of plant image downloads, labelled by result.",
	},
	[]string{"result"},
)

// UpstreamRequestsTotal counts requests sent to the plant catalogue API.
// Label:
//   - code: HTTP status code, or "error" for transport failures
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests to the plant catalogue API.",
	},
	[]string{"code"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)
