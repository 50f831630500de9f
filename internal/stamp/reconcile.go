package stamp

import (
	"context"

	"github.com/jmoiron/sqlx"

	"farmstay-go/pkg/model"
)

// summarize derives the aggregate a set of ledger rows implies.
// It returns nil for an empty set.
func summarize(userID int, regionCode string, visits []model.VisitRecord) *model.RegionAggregate {
	if len(visits) == 0 {
		return nil
	}
	agg := &model.RegionAggregate{
		UserID:         userID,
		RegionCode:     regionCode,
		FirstVisitDate: dateOnly(visits[0].VisitDate),
		LastVisitDate:  dateOnly(visits[0].VisitDate),
	}
	farms := make(map[int]struct{})
	for _, v := range visits {
		d := dateOnly(v.VisitDate)
		agg.VisitCount++
		agg.FirstVisitDate = minDate(agg.FirstVisitDate, d)
		agg.LastVisitDate = maxDate(agg.LastVisitDate, d)
		farms[v.FarmID] = struct{}{}
	}
	agg.UniqueFarmCount = len(farms)
	return agg
}

// rebuildAggregate rewrites a pair's aggregate from its ledger rows, deleting
// it when no rows remain. The caller must hold the pair lock.
func rebuildAggregate(ctx context.Context, tx *sqlx.Tx, userID int, regionCode string) (*model.RegionAggregate, error) {
	visits, err := listVisits(ctx, tx, userID, regionCode)
	if err != nil {
		return nil, err
	}
	want := summarize(userID, regionCode, visits)
	if want == nil {
		return nil, deleteAggregate(ctx, tx, userID, regionCode)
	}

	existing, err := getAggregate(ctx, tx, userID, regionCode)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return want, insertAggregate(ctx, tx, want)
	}
	want.ID = existing.ID
	want.CreatedAt = existing.CreatedAt
	return want, updateAggregate(ctx, tx, want)
}

// RetractTx removes a review's visit record inside the caller's transaction
// and rebuilds the affected aggregate. It returns the removed record, or nil
// when the review was never stamped. The ranking cache is left alone.
func (s *Synchronizer) RetractTx(ctx context.Context, tx *sqlx.Tx, reviewID int) (*model.VisitRecord, error) {
	visit, err := visitByReview(ctx, tx, reviewID)
	if err != nil || visit == nil {
		return nil, err
	}
	if err := lockPair(ctx, tx, visit.UserID, visit.RegionCode); err != nil {
		return nil, err
	}
	removed, err := deleteVisit(ctx, tx, reviewID)
	if err != nil || !removed {
		return nil, err
	}
	if _, err := rebuildAggregate(ctx, tx, visit.UserID, visit.RegionCode); err != nil {
		return nil, err
	}
	return visit, nil
}

// InvalidateRanking drops cached ranking pages. Callers of RetractTx invoke
// it once their transaction has committed.
func (s *Synchronizer) InvalidateRanking(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// Retract is RetractTx in its own transaction
func (s *Synchronizer) Retract(ctx context.Context, reviewID int) (*model.VisitRecord, error) {
	var visit *model.VisitRecord
	err := s.store.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		visit, err = s.RetractTx(ctx, tx, reviewID)
		return err
	})
	if err == nil && visit != nil {
		s.InvalidateRanking(ctx)
	}
	return visit, err
}

// Reconcile rebuilds one pair's aggregate from the ledger
func (s *Synchronizer) Reconcile(ctx context.Context, userID int, regionCode string) (*model.RegionAggregate, error) {
	var agg *model.RegionAggregate
	err := s.store.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockPair(ctx, tx, userID, regionCode); err != nil {
			return err
		}
		var err error
		agg, err = rebuildAggregate(ctx, tx, userID, regionCode)
		return err
	})
	if err == nil {
		s.InvalidateRanking(ctx)
	}
	return agg, err
}

// Verify compares every aggregate with the ledger and returns the pairs
// that disagree, ordered by user then region
func (s *Store) Verify(ctx context.Context) ([]model.AggregateDrift, error) {
	pairs, err := s.listPairs(ctx)
	if err != nil {
		return nil, err
	}

	drifts := []model.AggregateDrift{}
	for _, p := range pairs {
		stored, err := getAggregate(ctx, s.db, p.UserID, p.RegionCode)
		if err != nil {
			return nil, err
		}
		visits, err := listVisits(ctx, s.db, p.UserID, p.RegionCode)
		if err != nil {
			return nil, err
		}
		want := summarize(p.UserID, p.RegionCode, visits)
		if !sameAggregate(stored, want) {
			drifts = append(drifts, model.AggregateDrift{
				UserID:     p.UserID,
				RegionCode: p.RegionCode,
				Stored:     stored,
				Expected:   want,
			})
		}
	}
	return drifts, nil
}

func sameAggregate(a, b *model.RegionAggregate) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.VisitCount == b.VisitCount &&
		a.UniqueFarmCount == b.UniqueFarmCount &&
		dateOnly(a.FirstVisitDate).Equal(dateOnly(b.FirstVisitDate)) &&
		dateOnly(a.LastVisitDate).Equal(dateOnly(b.LastVisitDate))
}
