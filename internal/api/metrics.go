package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics for the report service.
type Metrics struct {
	registry *prometheus.Registry

	ReportsGenerated prometheus.Counter
	ReportsFailed    *prometheus.CounterVec
	PDFDownloads     prometheus.Counter
	UploadBytes      prometheus.Counter
	GenerateSeconds  prometheus.Histogram
}

// NewMetrics creates the service metrics on a private registry, so every
// server instance gets its own counters.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ReportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "nesshub_reports_generated_total",
			Help: "Total number of reports generated successfully",
		}),
		ReportsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "nesshub_reports_failed_total",
			Help: "Total number of failed report generations by reason",
		}, []string{"reason"}),
		PDFDownloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "nesshub_pdf_downloads_total",
			Help: "Total number of PDF report downloads",
		}),
		UploadBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "nesshub_upload_bytes_total",
			Help: "Total bytes of uploaded scan exports",
		}),
		GenerateSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "nesshub_generate_duration_seconds",
			Help:    "Time spent parsing, aggregating, and rendering one report",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
