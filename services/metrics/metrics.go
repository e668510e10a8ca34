package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Eligibility checks by outcome reason
	EligibilityChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_eligibility_checks_total",
			Help: "Total number of quiz eligibility checks",
		},
		[]string{"reason"},
	)

	// Submissions by outcome: passed, failed, rejected reason, or error
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of quiz submissions",
		},
		[]string{"outcome"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_submission_duration_seconds",
			Help:    "Time spent processing quiz submissions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// Violation reports by outcome: blocked, ignored_admin, error
	Violations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_violations_total",
			Help: "Total number of quiz integrity violation reports",
		},
		[]string{"outcome"},
	)

	CertificatesIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_certificates_issued_total",
			Help: "Total number of certificate eligible submissions",
		},
	)

	BlocksSwept = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_expired_blocks_swept_total",
			Help: "Total number of expired block-only records removed",
		},
	)
)

// ObserveSubmission records one submission outcome and how long it took.
func ObserveSubmission(outcome string, started time.Time) {
	Submissions.WithLabelValues(outcome).Inc()
	SubmissionDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
