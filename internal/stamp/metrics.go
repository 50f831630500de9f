package stamp

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SyncTotal counts synchronizations by status and skip reason
	SyncTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stamp_sync_total",
			Help: "Total number of review stamp synchronizations",
		},
		[]string{"status", "reason"},
	)

	SyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stamp_sync_duration_seconds",
			Help:    "Duration of review stamp synchronizations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// BackfillItemsTotal counts backfill items by status
	BackfillItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stamp_backfill_items_total",
			Help: "Total number of reviews processed by stamp backfills",
		},
		[]string{"status"},
	)

	BackfillRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stamp_backfill_runs_total",
			Help: "Total number of stamp backfill runs",
		},
		[]string{"result"},
	)

	// RankingCacheTotal counts leaderboard cache lookups by result
	RankingCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stamp_ranking_cache_total",
			Help: "Total number of leaderboard cache lookups",
		},
		[]string{"result"},
	)
)

// RecordSync records one synchronization outcome
func RecordSync(out Outcome, d time.Duration) {
	SyncTotal.WithLabelValues(string(out.Status), out.Reason).Inc()
	SyncDuration.Observe(d.Seconds())
}

// RecordBackfillItem records one processed backfill item
func RecordBackfillItem(status Status) {
	BackfillItemsTotal.WithLabelValues(string(status)).Inc()
}

// RecordBackfillRun records a finished backfill run
func RecordBackfillRun(cancelled bool, failed int) {
	result := "complete"
	switch {
	case cancelled:
		result = "cancelled"
	case failed > 0:
		result = "partial"
	}
	BackfillRunsTotal.WithLabelValues(result).Inc()
}

// RecordRankingCache records a leaderboard cache hit or miss
func RecordRankingCache(hit bool) {
	if hit {
		RankingCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	RankingCacheTotal.WithLabelValues("miss").Inc()
}
