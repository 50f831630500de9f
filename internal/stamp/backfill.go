package stamp

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"farmstay-go/pkg/logger"
	"farmstay-go/pkg/model"
)

// Syncer is the single-review entry point a backfill drives
type Syncer interface {
	Synchronize(ctx context.Context, reviewID int) (Outcome, error)
}

// BackfillOptions tunes a backfill run
type BackfillOptions struct {
	// Workers > 1 processes users in parallel; each user's reviews stay in id order
	Workers int
	// ProgressEvery emits progress after this many processed reviews
	ProgressEvery int
	// Progress, if set, is called alongside each progress log line
	Progress func(processed, total int)
}

// Backfiller replays historical reviews through the synchronizer
type Backfiller struct {
	store *Store
	sync  Syncer
	log   *logger.Logger
	opts  BackfillOptions
}

// NewBackfiller creates a new backfill job
func NewBackfiller(store *Store, sync Syncer, log *logger.Logger, opts BackfillOptions) *Backfiller {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.ProgressEvery < 1 {
		opts.ProgressEvery = 10
	}
	return &Backfiller{store: store, sync: sync, log: log, opts: opts}
}

// Run backfills every review in the database
func (b *Backfiller) Run(ctx context.Context) (*model.BackfillReport, error) {
	keys, err := b.store.ListReviewKeys(ctx)
	if err != nil {
		return nil, err
	}
	return b.Apply(ctx, keys), nil
}

// Apply synchronizes the given reviews in ascending id order. Item failures
// are collected in the report and never stop the run; cancelling ctx stops
// it between items.
func (b *Backfiller) Apply(ctx context.Context, reviews []ReviewKey) *model.BackfillReport {
	ordered := make([]ReviewKey, len(reviews))
	copy(ordered, reviews)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	runID := uuid.NewString()
	log := b.log.With("run_id", runID)
	t := &tally{
		report: &model.BackfillReport{
			RunID:          runID,
			Total:          len(ordered),
			SkippedReasons: map[string]int{},
			FailedDetails:  []model.BackfillFailure{},
			StartedAt:      time.Now().UTC(),
		},
		every:    b.opts.ProgressEvery,
		progress: b.opts.Progress,
		log:      log,
	}
	log.Info("Starting stamp backfill", "total", t.report.Total, "workers", b.opts.Workers)

	if b.opts.Workers == 1 {
		b.applyPartition(ctx, ordered, t)
	} else {
		var g errgroup.Group
		g.SetLimit(b.opts.Workers)
		for _, part := range partitionByUser(ordered) {
			part := part
			g.Go(func() error {
				b.applyPartition(ctx, part, t)
				return nil
			})
		}
		_ = g.Wait()
	}

	report := t.finish(ctx)
	RecordBackfillRun(report.Cancelled, report.Failed)
	log.Info("Finished stamp backfill",
		"total", report.Total,
		"processed", report.Processed,
		"applied", report.Applied,
		"already_applied", report.AlreadyApplied,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"cancelled", report.Cancelled)
	return report
}

func (b *Backfiller) applyPartition(ctx context.Context, reviews []ReviewKey, t *tally) {
	for _, r := range reviews {
		if ctx.Err() != nil {
			return
		}
		t.record(b.syncOne(ctx, r.ID))
	}
}

// syncOne isolates a single review so a panic fails only that item
func (b *Backfiller) syncOne(ctx context.Context, reviewID int) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Recovered from panic while backfilling review", "review_id", reviewID, "panic", r)
			out = failed(reviewID, fmt.Errorf("panic: %v", r))
		}
	}()
	out, _ = b.sync.Synchronize(ctx, reviewID)
	out.ReviewID = reviewID
	return out
}

// partitionByUser groups reviews by guest, keeping id order within each
// group and ordering groups by their first review
func partitionByUser(ordered []ReviewKey) [][]ReviewKey {
	index := map[int]int{}
	var parts [][]ReviewKey
	for _, r := range ordered {
		i, ok := index[r.GuestID]
		if !ok {
			i = len(parts)
			index[r.GuestID] = i
			parts = append(parts, nil)
		}
		parts[i] = append(parts[i], r)
	}
	return parts
}

// tally accumulates outcomes from concurrent partitions
type tally struct {
	mu       sync.Mutex
	report   *model.BackfillReport
	every    int
	progress func(processed, total int)
	log      *logger.Logger
}

func (t *tally) record(out Outcome) {
	RecordBackfillItem(out.Status)

	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.report
	r.Processed++
	switch out.Status {
	case StatusApplied:
		r.Applied++
	case StatusAlreadyApplied:
		r.AlreadyApplied++
	case StatusSkipped:
		r.Skipped++
		r.SkippedReasons[out.Reason]++
	default:
		r.Failed++
		msg := "unknown error"
		if out.Err != nil {
			msg = out.Err.Error()
		}
		r.FailedDetails = append(r.FailedDetails, model.BackfillFailure{ReviewID: out.ReviewID, Error: msg})
		t.log.Warn("Failed to backfill review", "review_id", out.ReviewID, "error", msg)
	}

	if r.Processed%t.every == 0 || r.Processed == r.Total {
		t.log.Info("Stamp backfill progress",
			"processed", r.Processed, "total", r.Total, "percent", r.Processed*100/r.Total)
		if t.progress != nil {
			t.progress(r.Processed, r.Total)
		}
	}
}

func (t *tally) finish(ctx context.Context) *model.BackfillReport {
	t.mu.Lock()
	defer t.mu.Unlock()

	r := t.report
	sort.Slice(r.FailedDetails, func(i, j int) bool {
		return r.FailedDetails[i].ReviewID < r.FailedDetails[j].ReviewID
	})
	r.Cancelled = ctx.Err() != nil && r.Processed < r.Total
	r.FinishedAt = time.Now().UTC()
	return r
}
