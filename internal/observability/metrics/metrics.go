// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "audio_notebook"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Job metrics
	JobsTotal     prometheus.Counter
	JobsActive    prometheus.Gauge
	JobsSucceeded prometheus.Counter
	JobsFailed    *prometheus.CounterVec
	JobDuration   prometheus.Histogram

	// Provider metrics
	PollsTotal     prometheus.Counter
	ProviderErrors *prometheus.CounterVec
	SubmitLatency  prometheus.Histogram

	// Upload metrics
	UploadsRejected    prometheus.Counter
	AudioBytesUploaded prometheus.Counter

	// Store metrics
	NotebooksCreated      prometheus.Counter
	TranscriptionsDeleted prometheus.Counter
	StoreErrors           *prometheus.CounterVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		JobsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Total number of transcription jobs started",
		}),
		JobsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_active",
			Help:      "Number of transcription jobs currently running",
		}),
		JobsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_succeeded_total",
			Help:      "Total number of jobs that materialized a notebook",
		}),
		JobsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_failed_total",
			Help:      "Total number of failed jobs",
		}, []string{"stage"}),
		JobDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of transcription jobs in seconds",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		}),

		PollsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_polls_total",
			Help:      "Total number of provider status polls",
		}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Total number of provider errors",
		}, []string{"stage"}),
		SubmitLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_submit_latency_seconds",
			Help:      "Latency of provider submit calls in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),

		UploadsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_rejected_total",
			Help:      "Total number of uploads rejected by the MIME gate",
		}),
		AudioBytesUploaded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_uploaded_total",
			Help:      "Total audio bytes accepted for transcription",
		}),

		NotebooksCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notebooks_created_total",
			Help:      "Total number of notebooks materialized",
		}),
		TranscriptionsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_deleted_total",
			Help:      "Total number of transcriptions deleted by users",
		}),
		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Total number of persistence errors",
		}, []string{"operation"}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordJobStart records a new transcription job starting.
func (m *Metrics) RecordJobStart() {
	m.JobsTotal.Inc()
	m.JobsActive.Inc()
}

// RecordJobEnd records a job reaching a terminal outcome.
func (m *Metrics) RecordJobEnd(success bool, stage string, durationSeconds float64) {
	m.JobsActive.Dec()
	m.JobDuration.Observe(durationSeconds)
	if success {
		m.JobsSucceeded.Inc()
	} else {
		m.JobsFailed.WithLabelValues(stage).Inc()
	}
}

// RecordPoll records one provider status poll.
func (m *Metrics) RecordPoll() {
	m.PollsTotal.Inc()
}

// RecordProviderError records a provider error at a given stage.
func (m *Metrics) RecordProviderError(stage string) {
	m.ProviderErrors.WithLabelValues(stage).Inc()
}

// RecordSubmit records the latency of a provider submit call.
func (m *Metrics) RecordSubmit(latencySeconds float64) {
	m.SubmitLatency.Observe(latencySeconds)
}

// RecordUploadRejected records an upload rejected by the MIME gate.
func (m *Metrics) RecordUploadRejected() {
	m.UploadsRejected.Inc()
}

// RecordUploadAccepted records accepted audio bytes.
func (m *Metrics) RecordUploadAccepted(bytes int) {
	m.AudioBytesUploaded.Add(float64(bytes))
}

// RecordNotebookCreated records a materialized notebook.
func (m *Metrics) RecordNotebookCreated() {
	m.NotebooksCreated.Inc()
}

// RecordTranscriptionDeleted records a user delete.
func (m *Metrics) RecordTranscriptionDeleted() {
	m.TranscriptionsDeleted.Inc()
}

// RecordStoreError records a persistence error.
func (m *Metrics) RecordStoreError(operation string) {
	m.StoreErrors.WithLabelValues(operation).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
