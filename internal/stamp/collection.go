package stamp

import (
	"context"
	"errors"
	"fmt"

	"farmstay-go/internal/region"
	"farmstay-go/pkg/model"
)

// RegionLister is read access to the region catalog
type RegionLister interface {
	ListActive(ctx context.Context) ([]model.Region, error)
	Get(ctx context.Context, code string) (*model.Region, error)
}

// CollectionBuilder assembles a user's stamp collection views
type CollectionBuilder struct {
	store        *Store
	regions      RegionLister
	totalRegions int
}

// NewCollectionBuilder creates a new collection builder
func NewCollectionBuilder(store *Store, regions RegionLister, totalRegions int) *CollectionBuilder {
	return &CollectionBuilder{store: store, regions: regions, totalRegions: totalRegions}
}

// BuildCollection lists every active region in catalog order with the
// user's progress on it. A user with no visits gets an all-unvisited list
// and a zero summary.
func (b *CollectionBuilder) BuildCollection(ctx context.Context, userID int) (*model.CollectionResponse, error) {
	regions, err := b.regions.ListActive(ctx)
	if err != nil {
		return nil, storeError("list regions", err)
	}
	aggs, err := b.store.ListAggregates(ctx, userID)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]model.RegionAggregate, len(aggs))
	var summary model.CollectionSummary
	for _, a := range aggs {
		byCode[a.RegionCode] = a
		summary.TotalVisits += a.VisitCount
		summary.TotalFarms += a.UniqueFarmCount
	}
	summary.TotalPrefectures = len(aggs)
	summary.CompletionRate = CompletionRate(summary.TotalPrefectures, b.totalRegions)

	stamps := make([]model.PrefectureStatus, 0, len(regions))
	for _, r := range regions {
		status := model.PrefectureStatus{
			PrefectureCode: r.Code,
			Name:           r.Name,
			ImageURL:       r.ImageURL,
			Region:         r.Area,
		}
		if a, ok := byCode[r.Code]; ok {
			first, last := dateOnly(a.FirstVisitDate), dateOnly(a.LastVisitDate)
			status.IsVisited = true
			status.VisitCount = a.VisitCount
			status.FirstVisitDate = &first
			status.LastVisitDate = &last
			status.UniqueFarmCount = a.UniqueFarmCount
		}
		stamps = append(stamps, status)
	}

	return &model.CollectionResponse{Summary: summary, Stamps: stamps}, nil
}

// PrefectureDetail returns a user's aggregate for one region together with
// the individual visits, newest first. It returns ErrNotFound when the user
// has never visited the region.
func (b *CollectionBuilder) PrefectureDetail(ctx context.Context, userID int, regionCode string) (*model.PrefectureDetailResponse, error) {
	agg, err := b.store.GetAggregate(ctx, userID, regionCode)
	if err != nil {
		return nil, err
	}
	if agg == nil {
		return nil, fmt.Errorf("%w: no visits to region %s", ErrNotFound, regionCode)
	}

	r, err := b.regions.Get(ctx, regionCode)
	if err != nil {
		if errors.Is(err, region.ErrRegionNotFound) {
			return nil, fmt.Errorf("%w: region %s", ErrNotFound, regionCode)
		}
		return nil, storeError("load region", err)
	}

	farms, err := b.store.ListVisitedFarms(ctx, userID, regionCode)
	if err != nil {
		return nil, err
	}

	return &model.PrefectureDetailResponse{
		PrefectureCode:  regionCode,
		Name:            r.Name,
		VisitCount:      agg.VisitCount,
		FirstVisitDate:  dateOnly(agg.FirstVisitDate),
		LastVisitDate:   dateOnly(agg.LastVisitDate),
		UniqueFarmCount: agg.UniqueFarmCount,
		VisitedFarms:    farms,
	}, nil
}
