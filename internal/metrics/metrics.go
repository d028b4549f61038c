package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeAccepted         = "accepted"
	OutcomeAlreadySubmitted = "already_submitted"
	OutcomeRejected         = "rejected"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_submissions_total",
			Help: "Total number of exam submissions by outcome",
		},
		[]string{"outcome"},
	)

	ScoreHistogram = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "exam_score_percent",
			Help:    "Distribution of submitted exam scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	AttemptsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "exam_attempts_started_total",
			Help: "Total number of attempts created",
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
