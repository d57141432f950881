// Package metrics defines the Prometheus collectors exported by the server.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded for IP location lookups.
const (
	GeoPrivate  = "private"
	GeoCacheHit = "cache_hit"
	GeoResolved = "resolved"
	GeoFailed   = "failed"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing,
// so components can be built without a registry in tests.
type Metrics struct {
	rpcRequests   *prometheus.CounterVec
	rpcDuration   *prometheus.HistogramVec
	eventsCreated prometheus.Counter
	pointsAwarded prometheus.Counter
	geoLookups    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealpoints",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mealpoints",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		eventsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mealpoints",
			Name:      "events_created_total",
			Help:      "Dinner events recorded.",
		}),
		pointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mealpoints",
			Name:      "points_awarded_total",
			Help:      "Points credited across all attendees of recorded events.",
		}),
		geoLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mealpoints",
			Name:      "geo_lookups_total",
			Help:      "IP location lookups by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.rpcRequests, m.rpcDuration, m.eventsCreated, m.pointsAwarded, m.geoLookups)
	return m
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// EventCreated records a new event worth points to each of attendees.
func (m *Metrics) EventCreated(points, attendees int) {
	if m == nil {
		return
	}
	m.eventsCreated.Inc()
	m.pointsAwarded.Add(float64(points * attendees))
}

// GeoLookup records the outcome of one IP location lookup.
func (m *Metrics) GeoLookup(outcome string) {
	if m == nil {
		return
	}
	m.geoLookups.WithLabelValues(outcome).Inc()
}

// Interceptor returns a Connect interceptor that counts and times every RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if m == nil {
				return next(ctx, req)
			}
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeUnknown.String()
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					code = connectErr.Code().String()
				}
			}
			m.rpcRequests.WithLabelValues(procedure, code).Inc()
			m.rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())

			return resp, err
		}
	}
}
