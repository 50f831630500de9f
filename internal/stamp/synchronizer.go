package stamp

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"farmstay-go/pkg/logger"
	"farmstay-go/pkg/model"
)

// RegionResolver maps a prefecture name to a catalog code
type RegionResolver interface {
	ResolveCode(ctx context.Context, name string) (string, bool, error)
}

// Synchronizer applies reviews to the visit ledger and region aggregates
type Synchronizer struct {
	store   *Store
	regions RegionResolver
	cache   RankingCache
	log     *logger.Logger
}

// NewSynchronizer creates a new synchronizer. cache may be nil.
func NewSynchronizer(store *Store, regions RegionResolver, cache RankingCache, log *logger.Logger) *Synchronizer {
	return &Synchronizer{
		store:   store,
		regions: regions,
		cache:   cache,
		log:     log,
	}
}

// Synchronize records the visit behind a review and folds it into the
// user's aggregate for that region. Running it again for the same review
// is a no-op that reports StatusAlreadyApplied. The returned error is
// non-nil exactly when the outcome is StatusFailed.
func (s *Synchronizer) Synchronize(ctx context.Context, reviewID int) (Outcome, error) {
	start := time.Now()
	out := s.synchronize(ctx, reviewID)
	RecordSync(out, time.Since(start))

	switch out.Status {
	case StatusApplied:
		s.InvalidateRanking(ctx)
	case StatusFailed:
		if errors.Is(out.Err, ErrConsistencyViolation) {
			s.log.Error("Stamp ledger consistency violation", "review_id", reviewID, "error", out.Err)
		}
	}
	return out, out.Err
}

func (s *Synchronizer) synchronize(ctx context.Context, reviewID int) Outcome {
	rv, err := s.store.loadReviewVisit(ctx, reviewID)
	if err != nil {
		return failed(reviewID, err)
	}

	code, ok, err := s.regions.ResolveCode(ctx, rv.Prefecture.String)
	if err != nil {
		return failed(reviewID, storeError("resolve region", err))
	}
	if !ok {
		s.log.Debug("Skipping review with unmapped prefecture", "review_id", reviewID, "prefecture", rv.Prefecture.String)
		return skipped(reviewID, ReasonUnmappedRegion)
	}

	visit := &model.VisitRecord{
		UserID:         rv.GuestID,
		RegionCode:     code,
		FarmID:         int(rv.FarmID.Int64),
		ReviewID:       reviewID,
		VisitDate:      dateOnly(rv.ExperienceDate),
		ExperienceType: rv.ExperienceType.String,
	}

	var agg *model.RegionAggregate
	already := false
	err = s.store.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockPair(ctx, tx, visit.UserID, code); err != nil {
			return err
		}
		exists, err := visitExists(ctx, tx, reviewID)
		if err != nil {
			return err
		}
		if exists {
			already = true
			return nil
		}
		if err := insertVisit(ctx, tx, visit); err != nil {
			return err
		}
		agg, err = s.foldVisit(ctx, tx, visit)
		return err
	})
	if err != nil {
		return failed(reviewID, err)
	}
	if already {
		return alreadyApplied(reviewID)
	}
	return applied(reviewID, visit, agg)
}

// foldVisit upserts the aggregate for a visit that was just inserted in tx
func (s *Synchronizer) foldVisit(ctx context.Context, tx *sqlx.Tx, v *model.VisitRecord) (*model.RegionAggregate, error) {
	agg, err := getAggregate(ctx, tx, v.UserID, v.RegionCode)
	if err != nil {
		return nil, err
	}
	if agg == nil {
		// first stamp for the pair, or the row went missing while the ledger kept its visits
		agg, err = rebuildAggregate(ctx, tx, v.UserID, v.RegionCode)
		if err == nil && agg != nil && agg.VisitCount > 1 {
			s.log.Warn("Region aggregate was missing, rebuilt from ledger",
				"user_id", v.UserID, "region_code", v.RegionCode, "visit_count", agg.VisitCount)
		}
		return agg, err
	}

	farms, err := countDistinctFarms(ctx, tx, v.UserID, v.RegionCode)
	if err != nil {
		return nil, err
	}

	agg.VisitCount++
	agg.FirstVisitDate = minDate(dateOnly(agg.FirstVisitDate), v.VisitDate)
	agg.LastVisitDate = maxDate(dateOnly(agg.LastVisitDate), v.VisitDate)
	agg.UniqueFarmCount = farms

	if farms > agg.VisitCount {
		// the stored count fell behind the ledger; rebuild instead of carrying the drift forward
		s.log.Warn("Region aggregate drifted from ledger, rebuilding",
			"user_id", v.UserID, "region_code", v.RegionCode, "visit_count", agg.VisitCount, "farms", farms)
		return rebuildAggregate(ctx, tx, v.UserID, v.RegionCode)
	}

	return agg, updateAggregate(ctx, tx, agg)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func minDate(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func maxDate(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
