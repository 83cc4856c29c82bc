// Package metrics defines and registers the custom Prometheus metrics of the
// greenpath API. Collectors are registered with the default registry on
// package initialisation and served by promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "greenpath"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session-change events published by the identity provider.
// Labels:
//   - kind: "signed_in", "signed_out" or "restored"
//   - result: "published" or "dropped" (context cancelled before the stream had room)
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session-change events, by kind and publish result.",
	},
	[]string{"kind", "result"},
)

// SessionQueueDepth tracks the number of events waiting in each dispatcher worker channel.
var SessionQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_queue_depth",
		Help:      "Current number of session events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ProfileResolutionsTotal counts finished profile resolutions.
// Label:
//   - outcome: "ready", "created", "error" or "superseded"
var ProfileResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_resolutions_total",
		Help:      "Total number of profile resolutions, by outcome.",
	},
	[]string{"outcome"},
)

// ProfileCreatesTotal counts create attempts issued to the profile store.
var ProfileCreatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_creates_total",
		Help:      "Total number of profile create attempts, by result.",
	},
	[]string{"result"},
)

// ProfileResolutionDuration measures fetch-or-create round trips.
var ProfileResolutionDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "profile_resolution_duration_seconds",
		Help:      "Duration of a profile resolution from fetch to Ready or Error.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── City metrics ──────────────────────────────────────────────────────────────

// PurchasesTotal counts purchase intents.
// Label:
//   - result: "ok", "insufficient_points", "already_owned" or "error"
var PurchasesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "city_purchases_total",
		Help:      "Total number of city item purchase attempts, by result.",
	},
	[]string{"result"},
)

// PlacementsTotal counts successful placements per biome.
var PlacementsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "city_placements_total",
		Help:      "Total number of items placed, by biome.",
	},
	[]string{"biome"},
)

// LevelStartsTotal counts level start intents.
// Label:
//   - result: "ok" or "locked"
var LevelStartsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "level_starts_total",
		Help:      "Total number of level start attempts, by result.",
	},
	[]string{"result"},
)
