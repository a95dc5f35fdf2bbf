// Package metrics exposes Prometheus instrumentation for the bot.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arachnolog/broodkeeper/internal/conversation"
)

var (
	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_actions_total",
			Help: "Total number of dispatched actions labeled by tag and status",
		},
		[]string{"action", "status"},
	)
	actionDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "action_duration_seconds",
			Help:    "Duration of action handlers in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	decodeErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "callback_decode_errors_total",
			Help: "Total number of callback tokens rejected by the codec",
		},
		[]string{"kind"},
	)
	conversationOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_outcomes_total",
			Help: "Total number of conversation resolve outcomes",
		},
		[]string{"status"},
	)
	schedulerTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_ticks_total",
			Help: "Total number of alert scheduler ticks by category and result",
		},
		[]string{"category", "status"},
	)
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_deliveries_total",
			Help: "Total number of alert delivery attempts by category and status",
		},
		[]string{"category", "status"},
	)
	registeredRecipients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "registered_recipients",
			Help: "Current number of registered notification recipients",
		},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
)

func init() {
	conversation.RegisterOutcomeRecorder(RecordConversationOutcome)
}

// RecordAction increments action counters and records handler duration.
func RecordAction(action, status string, duration time.Duration) {
	if action == "" {
		action = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	actionsTotal.WithLabelValues(action, status).Inc()
	actionDurationSeconds.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordDecodeError counts a rejected callback token.
func RecordDecodeError(kind string) {
	if kind == "" {
		kind = "unknown"
	}

	decodeErrorsTotal.WithLabelValues(kind).Inc()
}

// RecordConversationOutcome tracks resolve outcomes.
func RecordConversationOutcome(status string) {
	if status == "" {
		status = "unknown"
	}

	conversationOutcomesTotal.WithLabelValues(status).Inc()
}

// RecordSchedulerTick counts one alert scheduler tick.
func RecordSchedulerTick(category, status string) {
	schedulerTicksTotal.WithLabelValues(category, status).Inc()
}

// RecordDelivery counts one alert delivery attempt.
func RecordDelivery(category, status string) {
	deliveriesTotal.WithLabelValues(category, status).Inc()
}

// SetRegisteredRecipients updates the recipient gauge.
func SetRegisteredRecipients(count int) {
	registeredRecipients.Set(float64(count))
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}
