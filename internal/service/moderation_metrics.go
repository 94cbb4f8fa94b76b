package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decision outcomes besides error kinds
const (
	outcomeCommitted = "committed"
	outcomeReplayed  = "replayed"
)

var (
	moderationDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moderation_decisions_total",
			Help: "Total number of moderation decisions by outcome",
		},
		[]string{"content_type", "status", "outcome"},
	)

	moderationDecisionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moderation_decision_duration_seconds",
			Help:    "Moderation decision latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"content_type"},
	)
)
