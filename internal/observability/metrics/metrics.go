package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "energy_audit_"

	// ResultSuccess labels a successful operation.
	ResultSuccess = "success"
	// ResultError labels a failed operation.
	ResultError = "error"
)

var (
	registerOnce sync.Once

	datasetUploads       *prometheus.CounterVec
	datasetUploadLatency *prometheus.HistogramVec

	viewRequests *prometheus.CounterVec

	weatherLookups *prometheus.CounterVec

	modelFits       *prometheus.CounterVec
	modelFitLatency *prometheus.HistogramVec

	reportGenerations     *prometheus.CounterVec
	reportGenerateLatency *prometheus.HistogramVec
)

// Init registers observability metrics.
func Init() {
	registerOnce.Do(func() {
		datasetUploads = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dataset_uploads_total",
				Help: "Total dataset uploads by result",
			},
			[]string{"result"},
		)
		datasetUploadLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dataset_upload_latency_seconds",
				Help:    "Dataset decode+normalize latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		viewRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "view_requests_total",
				Help: "Total analytic view requests by view and result",
			},
			[]string{"view", "result"},
		)

		weatherLookups = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "weather_lookups_total",
				Help: "Total per-date weather lookups by outcome",
			},
			[]string{"outcome"},
		)

		modelFits = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "model_fits_total",
				Help: "Total model fits by variant and result",
			},
			[]string{"variant", "result"},
		)
		modelFitLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "model_fit_latency_seconds",
				Help:    "Model fit latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"variant", "result"},
		)

		reportGenerations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "report_generate_total",
				Help: "Total report generations by variant and result",
			},
			[]string{"variant", "result"},
		)
		reportGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "report_generate_latency_seconds",
				Help:    "Report generation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"variant", "result"},
		)

		prometheus.MustRegister(
			datasetUploads,
			datasetUploadLatency,
			viewRequests,
			weatherLookups,
			modelFits,
			modelFitLatency,
			reportGenerations,
			reportGenerateLatency,
		)
	})
}

// ObserveUpload records an upload result and duration.
func ObserveUpload(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if datasetUploads != nil {
		datasetUploads.WithLabelValues(result).Inc()
	}
	if datasetUploadLatency != nil {
		datasetUploadLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// ObserveView records one analytic view request.
func ObserveView(view, result string) {
	if result == "" {
		result = ResultSuccess
	}
	if viewRequests != nil {
		viewRequests.WithLabelValues(view, result).Inc()
	}
}

// ObserveWeatherLookup records one per-date lookup outcome.
func ObserveWeatherLookup(resolved bool) {
	if weatherLookups == nil {
		return
	}
	outcome := "resolved"
	if !resolved {
		outcome = "absent"
	}
	weatherLookups.WithLabelValues(outcome).Inc()
}

// ObserveFit records a model fit result and duration.
func ObserveFit(variant, result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if modelFits != nil {
		modelFits.WithLabelValues(variant, result).Inc()
	}
	if modelFitLatency != nil {
		modelFitLatency.WithLabelValues(variant, result).Observe(duration.Seconds())
	}
}

// ObserveReport records a report generation result and duration.
func ObserveReport(variant, result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if reportGenerations != nil {
		reportGenerations.WithLabelValues(variant, result).Inc()
	}
	if reportGenerateLatency != nil {
		reportGenerateLatency.WithLabelValues(variant, result).Observe(duration.Seconds())
	}
}
