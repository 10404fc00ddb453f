package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Review submission outcomes.
const (
	outcomeAccepted    = "accepted"
	outcomeInvalid     = "invalid"
	outcomeNotFound    = "not_found"
	outcomeLockTimeout = "lock_timeout"
	outcomeFailed      = "failed"
)

var (
	reviewSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendor_review_submissions_total",
			Help: "Review submissions by outcome",
		},
		[]string{"outcome"},
	)

	reviewSubmitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vendor_review_submit_duration_seconds",
			Help:    "Duration of the review insert and rating recompute transaction",
			Buckets: prometheus.DefBuckets,
		},
	)
)
