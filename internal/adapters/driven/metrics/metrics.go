// Package metrics records lifecycle and HTTP metrics with Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.LifecycleRecorder = (*Recorder)(nil)

// Upload outcomes used as label values.
const (
	OutcomeOK       = "ok"
	OutcomeNetwork  = "network"
	OutcomeAuth     = "auth"
	OutcomeRejected = "rejected"
	OutcomeOther    = "error"
)

// Recorder holds the application's metric families.
type Recorder struct {
	transitions *prometheus.CounterVec
	uploads     *prometheus.CounterVec
	lookups     *prometheus.CounterVec
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New registers the metric families with reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docproof_transitions_total",
				Help: "Orchestrator phase transitions by operation and target phase",
			},
			[]string{"operation", "phase"},
		),
		uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docproof_uploads_total",
				Help: "Pinning attempts by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docproof_verify_lookups_total",
				Help: "Verification lookups by cache result",
			},
			[]string{"cache"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docproof_http_requests_total",
				Help: "HTTP requests to the verification server",
			},
			[]string{"method", "path", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docproof_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// RecordTransition counts one phase change.
func (r *Recorder) RecordTransition(t domain.Transition) {
	r.transitions.WithLabelValues(t.Operation.String(), t.To.String()).Inc()
}

// RecordUpload counts one pinning attempt.
func (r *Recorder) RecordUpload(provider string, err error) {
	r.uploads.WithLabelValues(provider, Outcome(err)).Inc()
}

// RecordLookup counts one verification lookup.
func (r *Recorder) RecordLookup(cacheHit bool) {
	label := "miss"
	if cacheHit {
		label = "hit"
	}
	r.lookups.WithLabelValues(label).Inc()
}

// Outcome maps a pinning error onto its label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrUploadNetwork):
		return OutcomeNetwork
	case errors.Is(err, domain.ErrUploadAuth):
		return OutcomeAuth
	case errors.Is(err, domain.ErrUploadRejected):
		return OutcomeRejected
	default:
		return OutcomeOther
	}
}

// Middleware records request counts and durations. Paths are labelled by
// their chi route pattern so hashes in URLs do not create new series.
func (r *Recorder) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()

			wrapped := newStatusWriter(w)
			next.ServeHTTP(wrapped, req)

			path := routePattern(req)
			r.requests.WithLabelValues(req.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			r.duration.WithLabelValues(req.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

func routePattern(req *http.Request) string {
	if rctx := chi.RouteContext(req.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// statusWriter captures the response status code.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the original writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
