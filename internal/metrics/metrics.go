package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ski_bracket"

const (
	TriggerManual    = "manual"
	TriggerAutoStart = "auto_start"
)

var (
	SubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Accommodation submissions stored.",
	})

	TournamentsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tournaments_generated_total",
		Help:      "Tournaments generated, by trigger.",
	}, []string{"trigger"})

	VotesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "votes_total",
		Help:      "Votes cast in tournament matchups.",
	})

	RoundsAdvanced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rounds_advanced_total",
		Help:      "Rounds folded into the next round or into a final winner.",
	})

	TournamentsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tournaments_completed_total",
		Help:      "Tournaments that reached a winner.",
	})

	AutoStartChecks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auto_start_checks_total",
		Help:      "Auto-start polls, by outcome.",
	}, []string{"outcome"})
)
