package monitoring

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge

	// Business metrics
	ChatbotsCreated     prometheus.Counter
	ChatbotsDeleted     prometheus.Counter
	DocumentsUploaded   *prometheus.CounterVec
	DocumentsExtracted  *prometheus.CounterVec
	ToolToggles         *prometheus.CounterVec
	IntegrationActions  *prometheus.CounterVec
	ExtractionQueueJobs *prometheus.CounterVec
}

var (
	metrics  *Metrics
	initOnce sync.Once
)

// Init registers all metrics with the default registry. Safe to call more than once.
func Init() *Metrics {
	initOnce.Do(func() {
		metrics = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
				},
				[]string{"method", "path"},
			),
			HTTPRequestsInFlight: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "http_requests_in_flight",
					Help: "Number of HTTP requests currently being processed",
				},
			),

			DBConnectionsActive: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "db_connections_active",
					Help: "Number of acquired database connections",
				},
			),
			DBConnectionsIdle: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "db_connections_idle",
					Help: "Number of idle database connections",
				},
			),

			ChatbotsCreated: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "chatbots_created_total",
					Help: "Total number of chatbot configurations created",
				},
			),
			ChatbotsDeleted: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "chatbots_deleted_total",
					Help: "Total number of chatbot configurations deleted",
				},
			),
			DocumentsUploaded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "knowledge_base_documents_uploaded_total",
					Help: "Documents uploaded, by initial status",
				},
				[]string{"status"},
			),
			DocumentsExtracted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "knowledge_base_documents_extracted_total",
					Help: "Documents resolved by the extraction worker, by final status",
				},
				[]string{"status"},
			),
			ToolToggles: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "chatbot_tool_toggles_total",
					Help: "Tool enable/disable operations",
				},
				[]string{"tool", "enabled"},
			),
			IntegrationActions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "integration_actions_total",
					Help: "Integration test and disconnect actions, by outcome status",
				},
				[]string{"service", "action", "status"},
			),
			ExtractionQueueJobs: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "extraction_queue_jobs_total",
					Help: "Extraction jobs by outcome (processed, skipped, requeued, dead_lettered)",
				},
				[]string{"outcome"},
			),
		}
	})
	return metrics
}

// Get returns the global metrics instance
func Get() *Metrics {
	return Init()
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware collects HTTP metrics labelled by the matched chi route pattern.
func Middleware(next http.Handler) http.Handler {
	m := Get()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// SetDBConnections sets database connection metrics
func SetDBConnections(active, idle int32) {
	Get().DBConnectionsActive.Set(float64(active))
	Get().DBConnectionsIdle.Set(float64(idle))
}

func RecordChatbotCreated() {
	Get().ChatbotsCreated.Inc()
}

func RecordChatbotDeleted() {
	Get().ChatbotsDeleted.Inc()
}

// RecordDocumentUploaded counts an upload by the status it was stored with.
func RecordDocumentUploaded(status string) {
	Get().DocumentsUploaded.WithLabelValues(status).Inc()
}

func RecordDocumentExtracted(status string) {
	Get().DocumentsExtracted.WithLabelValues(status).Inc()
}

func RecordToolToggle(tool string, enabled bool) {
	Get().ToolToggles.WithLabelValues(tool, strconv.FormatBool(enabled)).Inc()
}

func RecordIntegrationAction(service, action, status string) {
	Get().IntegrationActions.WithLabelValues(service, action, status).Inc()
}

func RecordQueueJob(outcome string) {
	Get().ExtractionQueueJobs.WithLabelValues(outcome).Inc()
}
