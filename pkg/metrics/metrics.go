package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Feedback pipeline metrics
	ParseJobsTotal   *prometheus.CounterVec
	ParseJobDuration prometheus.Histogram
	RowsClassified   *prometheus.CounterVec
	ErrorsExtracted  *prometheus.CounterVec
	SubmissionItems  *prometheus.CounterVec

	// Assembly pipeline metrics
	GenerationJobsTotal   *prometheus.CounterVec
	GenerationJobDuration prometheus.Histogram
	KeywordsFiltered      *prometheus.CounterVec

	// External API metrics
	ExternalAPICalls    *prometheus.CounterVec
	ExternalAPIDuration *prometheus.HistogramVec
	ExternalAPIFailures *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		ParseJobsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parse_jobs_total",
				Help: "Total number of results-file parse jobs",
			},
			[]string{"status"},
		),

		ParseJobDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "parse_job_duration_seconds",
				Help:    "Results-file parse duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		RowsClassified: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rows_classified_total",
				Help: "Total number of result rows classified",
			},
			[]string{"outcome"},
		),

		ErrorsExtracted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "errors_extracted_total",
				Help: "Total number of rejected entities extracted",
			},
			[]string{"kind"},
		),

		SubmissionItems: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "submission_items_total",
				Help: "Total number of deny-list submission items built",
			},
			[]string{"action"},
		),

		GenerationJobsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "generation_jobs_total",
				Help: "Total number of campaign generation jobs",
			},
			[]string{"status", "stage"},
		),

		GenerationJobDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "generation_job_duration_seconds",
				Help:    "Campaign generation duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120},
			},
		),

		KeywordsFiltered: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keywords_filtered_total",
				Help: "Total number of candidate keywords run through the deny-list filter",
			},
			[]string{"outcome"},
		),

		ExternalAPICalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_calls_total",
				Help: "Total number of external API calls",
			},
			[]string{"api", "status"},
		),

		ExternalAPIDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "external_api_duration_seconds",
				Help:    "External API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"api"},
		),

		ExternalAPIFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_failures_total",
				Help: "Total number of external API failures",
			},
			[]string{"api", "error_type"},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Parse job metrics
func (m *Metrics) RecordParseJob(status string, duration time.Duration) {
	m.ParseJobsTotal.WithLabelValues(status).Inc()
	m.ParseJobDuration.Observe(duration.Seconds())
}

// Row classification metrics
func (m *Metrics) RecordRowsClassified(outcome string, count int) {
	m.RowsClassified.WithLabelValues(outcome).Add(float64(count))
}

// Extracted entity metrics
func (m *Metrics) RecordErrorsExtracted(kind string, count int) {
	m.ErrorsExtracted.WithLabelValues(kind).Add(float64(count))
}

// Submission batch metrics
func (m *Metrics) RecordSubmissionItems(action string, count int) {
	m.SubmissionItems.WithLabelValues(action).Add(float64(count))
}

// Generation job metrics
func (m *Metrics) RecordGenerationJob(status, stage string, duration time.Duration) {
	m.GenerationJobsTotal.WithLabelValues(status, stage).Inc()
	m.GenerationJobDuration.Observe(duration.Seconds())
}

// Keyword filter metrics
func (m *Metrics) RecordKeywordsFiltered(outcome string, count int) {
	m.KeywordsFiltered.WithLabelValues(outcome).Add(float64(count))
}

// External API call metrics
func (m *Metrics) RecordExternalAPICall(api, status string, duration time.Duration) {
	m.ExternalAPICalls.WithLabelValues(api, status).Inc()
	m.ExternalAPIDuration.WithLabelValues(api).Observe(duration.Seconds())
}

// External API failure metrics
func (m *Metrics) RecordExternalAPIFailure(api, errorType string) {
	m.ExternalAPIFailures.WithLabelValues(api, errorType).Inc()
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
