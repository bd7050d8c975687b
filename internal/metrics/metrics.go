// Package metrics exposes Prometheus collectors for the HTTP server and the
// content store.
package metrics

import (
	"strconv"
	"time"

	"inkwell/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	PostsCreated    prometheus.Counter
	PostsDeleted    prometheus.Counter
	CommentsAdded   prometheus.Counter
	Posts           prometheus.Gauge
}

// New registers every collector on a fresh registry so tests and multiple
// servers in one process do not collide.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "inkwell",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		PostsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "posts_created_total",
			Help:      "Posts created since start.",
		}),
		PostsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "posts_deleted_total",
			Help:      "Posts deleted since start.",
		}),
		CommentsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inkwell",
			Name:      "comments_added_total",
			Help:      "Comments added since start.",
		}),
		Posts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "inkwell",
			Name:      "posts",
			Help:      "Posts in the current snapshot.",
		}),
	}
	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.PostsCreated,
		m.PostsDeleted,
		m.CommentsAdded,
		m.Posts,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe is a ContentStore subscriber.
func (m *Metrics) Observe(ev services.Event) {
	switch ev.Kind {
	case services.EventPostCreated:
		m.PostsCreated.Inc()
	case services.EventPostDeleted:
		m.PostsDeleted.Inc()
	case services.EventCommentAdded:
		m.CommentsAdded.Inc()
	}
	m.Posts.Set(float64(len(ev.Snapshot)))
}

// Track 记录一次请求
func (m *Metrics) Track(route, method string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
