package stamp

import (
	"context"
	"math"

	"farmstay-go/pkg/logger"
	"farmstay-go/pkg/model"
)

// RankingPage is a cacheable leaderboard page
type RankingPage struct {
	Entries    []model.RankEntry `json:"entries"`
	TotalUsers int               `json:"total_users"`
}

// RankingCache stores leaderboard pages keyed by limit
type RankingCache interface {
	Get(ctx context.Context, limit int) (*RankingPage, bool)
	Set(ctx context.Context, limit int, page *RankingPage)
	Invalidate(ctx context.Context)
}

// CompletionRate is visited/total as a percentage rounded to one decimal
func CompletionRate(visited, total int) float64 {
	if total <= 0 || visited <= 0 {
		return 0
	}
	return math.Round(float64(visited)/float64(total)*1000) / 10
}

// Ranker builds the region-count leaderboard
type Ranker struct {
	store        *Store
	cache        RankingCache
	totalRegions int
	log          *logger.Logger
}

// NewRanker creates a new ranker. cache may be nil.
func NewRanker(store *Store, cache RankingCache, totalRegions int, log *logger.Logger) *Ranker {
	return &Ranker{store: store, cache: cache, totalRegions: totalRegions, log: log}
}

// Rank returns the top limit users by distinct regions visited, ties broken
// by ascending user id. When userID is set, MyRanking holds that user's
// entry even if it falls outside the page.
func (r *Ranker) Rank(ctx context.Context, limit int, userID *int) (*model.RankingResponse, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	page, err := r.page(ctx, limit)
	if err != nil {
		return nil, err
	}

	resp := &model.RankingResponse{
		Rankings:   make([]model.RankEntry, len(page.Entries)),
		TotalUsers: page.TotalUsers,
	}
	for i, e := range page.Entries {
		e.Rank = i + 1
		e.CompletionRate = CompletionRate(e.TotalPrefectures, r.totalRegions)
		resp.Rankings[i] = e
	}

	if userID == nil {
		return resp, nil
	}
	for i := range resp.Rankings {
		if resp.Rankings[i].GuestID == *userID {
			mine := resp.Rankings[i]
			resp.MyRanking = &mine
			return resp, nil
		}
	}

	mine, ok, err := r.store.rankOf(ctx, *userID)
	if err != nil {
		return nil, err
	}
	if ok {
		mine.CompletionRate = CompletionRate(mine.TotalPrefectures, r.totalRegions)
		resp.MyRanking = &mine
	}
	return resp, nil
}

func (r *Ranker) page(ctx context.Context, limit int) (*RankingPage, error) {
	if r.cache != nil {
		page, ok := r.cache.Get(ctx, limit)
		RecordRankingCache(ok)
		if ok {
			return page, nil
		}
	}

	entries, err := r.store.rankPage(ctx, limit)
	if err != nil {
		return nil, err
	}
	total, err := r.store.countParticipants(ctx)
	if err != nil {
		return nil, err
	}
	page := &RankingPage{Entries: entries, TotalUsers: total}

	if r.cache != nil {
		r.cache.Set(ctx, limit, page)
	}
	return page, nil
}
