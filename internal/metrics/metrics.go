// Package metrics records engine lifecycle events and HTTP traffic as
// Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
)

const namespace = "devclub"

// Metrics owns a private registry so tests and multiple servers do not
// collide on prometheus.DefaultRegistry.
type Metrics struct {
	Registry *prometheus.Registry

	SceneEnters *prometheus.CounterVec
	Choices     *prometheus.CounterVec
	Backs       *prometheus.CounterVec
	Endings     *prometheus.CounterVec
	Restarts    *prometheus.CounterVec
	States      *prometheus.CounterVec

	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		SceneEnters: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scene_enters_total",
			Help:      "Scenes entered, by story and scene.",
		}, []string{"story_id", "scene_id"}),
		Choices: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "choices_total",
			Help:      "Choices made, by story.",
		}, []string{"story_id"}),
		Backs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "back_navigations_total",
			Help:      "Back navigations, by story.",
		}, []string{"story_id"}),
		Endings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "endings_total",
			Help:      "Endings reached, by story and ending scene.",
		}, []string{"story_id", "scene_id"}),
		Restarts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restarts_total",
			Help:      "Story restarts, by story.",
		}, []string{"story_id"}),
		States: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Game state transitions.",
		}, []string{"from", "to"}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests, by method, route pattern and status code.",
		}, []string{"method", "route", "code"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Hooks returns lifecycle hooks feeding the counters.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSceneEnter: func(e *domain.SceneEvent) {
			m.SceneEnters.WithLabelValues(e.StoryID, e.SceneID).Inc()
		},
		OnChoice: func(e *domain.SceneEvent) {
			m.Choices.WithLabelValues(e.StoryID).Inc()
		},
		OnBack: func(e *domain.SceneEvent) {
			m.Backs.WithLabelValues(e.StoryID).Inc()
		},
		OnEnding: func(e *domain.SceneEvent) {
			m.Endings.WithLabelValues(e.StoryID, e.SceneID).Inc()
		},
		OnRestart: func(e *domain.SceneEvent) {
			m.Restarts.WithLabelValues(e.StoryID).Inc()
		},
		OnStateChange: func(e *domain.StateEvent) {
			m.States.WithLabelValues(string(e.From), string(e.To)).Inc()
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// Middleware records request counts and latency by chi route pattern, so
// path parameters such as session IDs do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
