/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// APIRequestsTotal counts HTTP requests on the remote surface.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecton_http_requests_total",
		Help: "HTTP requests served by the remote surface.",
	}, []string{"method", "endpoint", "status"})

	// APIRequestDuration observes request latency on the remote surface.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "projecton_http_request_duration_seconds",
		Help:    "HTTP request latency on the remote surface.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// APIActiveConnections gauges in-flight HTTP requests.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "projecton_http_active_connections",
		Help: "In-flight HTTP requests on the remote surface.",
	})

	// WSClients gauges connected WebSocket clients.
	WSClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "projecton_ws_clients",
		Help: "Connected remote/stage WebSocket clients.",
	})

	// RemoteCommandsTotal counts remote-originated commands by token.
	RemoteCommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecton_remote_commands_total",
		Help: "Remote control commands received, by command token.",
	}, []string{"command"})

	// SlidesShownTotal counts slides promoted to the live display.
	SlidesShownTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecton_slides_shown_total",
		Help: "Slides promoted to the live display, by slide kind.",
	}, []string{"kind"})

	// PaginationSplitsTotal counts midpoint splits performed by the paginator.
	PaginationSplitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecton_pagination_splits_total",
		Help: "Segment midpoint splits performed by the paginator.",
	})

	// HealthChecksTotal counts remote page liveness probes by result.
	HealthChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecton_remote_health_checks_total",
		Help: "Remote page liveness probes, by page and result.",
	}, []string{"page", "result"})

	// ThumbnailsIndexedTotal counts thumbnails regenerated during reconciliation.
	ThumbnailsIndexedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecton_thumbnails_indexed_total",
		Help: "Thumbnails regenerated during index reconciliation, by table.",
	}, []string{"table"})
)

// Handler exposes the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
