package metricsvc

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// outcomes of an extraction request
const (
	OutcomeOK         = "ok"
	OutcomeValidation = "validation"
	OutcomeFetch      = "fetch"
	OutcomeParse      = "parse"
	OutcomeInternal   = "internal"
)

// Metrics holds the Prometheus metrics of the extraction service.
// Each instance owns its registry so servers can be created repeatedly (eg. in tests).
type Metrics struct {
	registry *prometheus.Registry

	ExtractionsTotal   *prometheus.CounterVec
	PagesTotal         prometheus.Counter
	OCRPagesTotal      prometheus.Counter
	ExtractionDuration prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ExtractionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "The total number of extraction requests by outcome",
		}, []string{"outcome"}), // ok, validation, fetch, parse, internal
		PagesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_extracted_total",
			Help:      "The total number of PDF pages extracted",
		}),
		OCRPagesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_needing_ocr_total",
			Help:      "The total number of extracted pages flagged as needing OCR",
		}),
		ExtractionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time spent fetching and parsing a PDF",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 40},
		}),
	}
}

func (m *Metrics) ObserveExtraction(outcome string, pages, ocrPages int, elapsed time.Duration) {
	m.ExtractionsTotal.WithLabelValues(outcome).Inc()
	m.ExtractionDuration.Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.PagesTotal.Add(float64(pages))
		m.OCRPagesTotal.Add(float64(ocrPages))
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
