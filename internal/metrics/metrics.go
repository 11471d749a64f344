package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

// Metrics groups all Prometheus instruments used by the worker process.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	MessagesDelivered *prometheus.CounterVec
	MessagesFailed    *prometheus.CounterVec
	ProcessingLatency *prometheus.HistogramVec
	PollErrors        prometheus.Counter
	DeadLetters       prometheus.Counter
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "messages_delivered_total",
			Help: "Total number of queue messages processed to a delivered verdict.",
		}, []string{"channel"}),

		MessagesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "messages_failed_total",
			Help: "Total number of queue messages processed to a failed verdict.",
		}, []string{"channel"}),

		ProcessingLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "message_processing_seconds",
			Help:    "Per-message processing latency from receive to verdict.",
			Buckets: prometheus.DefBuckets,
		}, []string{"channel"}),

		PollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "queue_poll_errors_total",
			Help: "Total number of failed queue poll attempts (drives backoff).",
		}),

		DeadLetters: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dead_letter_messages_total",
			Help: "Total number of messages observed moving to the dead-letter destination.",
		}),
	}

	reg.MustRegister(
		m.MessagesDelivered,
		m.MessagesFailed,
		m.ProcessingLatency,
		m.PollErrors,
		m.DeadLetters,
	)

	return m
}

// WorkerHooks returns the metric callback functions expected by
// worker.MetricHooks. Centralises the prometheus observation calls so the
// worker package stays import-free.
func (m *Metrics) WorkerHooks() (
	onDelivered func(domain.Channel, time.Duration),
	onFailed func(domain.Channel),
	onPollError func(),
) {
	onDelivered = func(ch domain.Channel, latency time.Duration) {
		m.MessagesDelivered.WithLabelValues(string(ch)).Inc()
		m.ProcessingLatency.WithLabelValues(string(ch)).Observe(latency.Seconds())
	}
	onFailed = func(ch domain.Channel) {
		m.MessagesFailed.WithLabelValues(string(ch)).Inc()
	}
	onPollError = func() {
		m.PollErrors.Inc()
	}
	return
}

// OnDeadLetters is the counterpart hook for the queue's redrive path.
func (m *Metrics) OnDeadLetters(n int) {
	m.DeadLetters.Add(float64(n))
}
