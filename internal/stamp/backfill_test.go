package stamp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstay-go/internal/testutil"
	"farmstay-go/pkg/logger"
	"farmstay-go/pkg/model"
)

// seedHistory creates reviews for three guests without stamping them
func seedHistory(t *testing.T, f *fixture) {
	t.Helper()
	farms := []int{
		f.farm(t, "Orchard", "Nagano"),
		f.farm(t, "Dairy", "Hokkaido"),
		f.farm(t, "Tea", "Shizuoka"),
		f.farm(t, "Rice", "Nagano"),
	}
	dates := []string{"2024-01-05", "2023-08-17", "2024-03-30", "2022-12-01", "2024-03-30"}
	for g := 0; g < 3; g++ {
		guest := testutil.CreateUser(t, f.db, []string{"a", "b", "c"}[g])
		for i, d := range dates {
			testutil.CreateReview(t, f.db, guest, farms[(g+i)%len(farms)], d)
		}
	}
}

func snapshot(t *testing.T, f *fixture) []model.RegionAggregate {
	t.Helper()
	var out []model.RegionAggregate
	for _, user := range []int{2, 3, 4} {
		aggs, err := f.store.ListAggregates(context.Background(), user)
		require.NoError(t, err)
		for _, a := range aggs {
			out = append(out, model.RegionAggregate{
				UserID:          a.UserID,
				RegionCode:      a.RegionCode,
				VisitCount:      a.VisitCount,
				FirstVisitDate:  dateOnly(a.FirstVisitDate),
				LastVisitDate:   dateOnly(a.LastVisitDate),
				UniqueFarmCount: a.UniqueFarmCount,
			})
		}
	}
	return out
}

func TestBackfillMatchesIncrementalSync(t *testing.T) {
	incremental := newFixture(t)
	seedHistory(t, incremental)
	keys, err := incremental.store.ListReviewKeys(context.Background())
	require.NoError(t, err)
	for _, k := range keys {
		incremental.apply(t, k.ID)
	}
	want := snapshot(t, incremental)
	require.NotEmpty(t, want)

	for _, workers := range []int{1, 4} {
		f := newFixture(t)
		seedHistory(t, f)
		b := NewBackfiller(f.store, f.sync, logger.NewNop(), BackfillOptions{Workers: workers})

		report, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 15, report.Total, "workers=%d", workers)
		assert.Equal(t, 15, report.Processed)
		assert.Equal(t, 15, report.Applied)
		assert.Zero(t, report.Failed)
		assert.False(t, report.Cancelled)
		assert.NotEmpty(t, report.RunID)
		assert.Equal(t, want, snapshot(t, f), "workers=%d", workers)
	}
}

func TestBackfillIsRerunnable(t *testing.T) {
	f := newFixture(t)
	seedHistory(t, f)
	b := NewBackfiller(f.store, f.sync, logger.NewNop(), BackfillOptions{})

	_, err := b.Run(context.Background())
	require.NoError(t, err)
	before := snapshot(t, f)

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Applied)
	assert.Equal(t, 15, report.AlreadyApplied)
	assert.Equal(t, before, snapshot(t, f))
}

func TestBackfillReportsSkipsAndFailures(t *testing.T) {
	f := newFixture(t)
	guest := testutil.CreateUser(t, f.db, "guest")
	good := testutil.CreateReview(t, f.db, guest, f.farm(t, "A", "Tokyo"), "2024-01-01")
	unmapped := testutil.CreateReview(t, f.db, guest, f.farm(t, "B", "Narnia"), "2024-01-02")

	b := NewBackfiller(f.store, f.sync, logger.NewNop(), BackfillOptions{})
	report := b.Apply(context.Background(), []ReviewKey{
		{ID: 9999, GuestID: guest},
		{ID: unmapped, GuestID: guest},
		{ID: good, GuestID: guest},
	})

	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, map[string]int{ReasonUnmappedRegion: 1}, report.SkippedReasons)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.FailedDetails, 1)
	assert.Equal(t, 9999, report.FailedDetails[0].ReviewID)
	assert.Contains(t, report.FailedDetails[0].Error, "not found")
}

type scriptedSyncer struct {
	mu     sync.Mutex
	seen   []int
	panics map[int]bool
	onCall func(id int)
}

func (s *scriptedSyncer) Synchronize(_ context.Context, id int) (Outcome, error) {
	s.mu.Lock()
	s.seen = append(s.seen, id)
	s.mu.Unlock()
	if s.onCall != nil {
		s.onCall(id)
	}
	if s.panics[id] {
		panic("boom")
	}
	if id%5 == 0 {
		err := errors.New("flaky store")
		return failed(id, err), err
	}
	return applied(id, nil, nil), nil
}

func keys(ids ...int) []ReviewKey {
	out := make([]ReviewKey, len(ids))
	for i, id := range ids {
		out[i] = ReviewKey{ID: id, GuestID: id % 2}
	}
	return out
}

func TestBackfillProcessesInIDOrder(t *testing.T) {
	s := &scriptedSyncer{}
	b := NewBackfiller(nil, s, logger.NewNop(), BackfillOptions{})

	b.Apply(context.Background(), keys(7, 3, 9, 1))
	assert.Equal(t, []int{1, 3, 7, 9}, s.seen)
}

func TestBackfillRecoversFromPanics(t *testing.T) {
	s := &scriptedSyncer{panics: map[int]bool{2: true}}
	b := NewBackfiller(nil, s, logger.NewNop(), BackfillOptions{})

	report := b.Apply(context.Background(), keys(1, 2, 3, 5))
	assert.Equal(t, 4, report.Processed)
	assert.Equal(t, 2, report.Applied)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.FailedDetails, 2)
	assert.Equal(t, 2, report.FailedDetails[0].ReviewID)
	assert.Contains(t, report.FailedDetails[0].Error, "panic: boom")
	assert.Equal(t, model.BackfillFailure{ReviewID: 5, Error: "flaky store"}, report.FailedDetails[1])
}

func TestBackfillStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &scriptedSyncer{onCall: func(id int) {
		if id == 3 {
			cancel()
		}
	}}
	b := NewBackfiller(nil, s, logger.NewNop(), BackfillOptions{})

	report := b.Apply(ctx, keys(1, 2, 3, 4, 6))
	assert.True(t, report.Cancelled)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, []int{1, 2, 3}, s.seen)
}

func TestBackfillReportsProgress(t *testing.T) {
	var calls [][2]int
	b := NewBackfiller(nil, &scriptedSyncer{}, logger.NewNop(), BackfillOptions{
		ProgressEvery: 2,
		Progress: func(processed, total int) {
			calls = append(calls, [2]int{processed, total})
		},
	})

	b.Apply(context.Background(), keys(1, 2, 3, 4, 6))
	assert.Equal(t, [][2]int{{2, 5}, {4, 5}, {5, 5}}, calls)
}

func TestPartitionByUser(t *testing.T) {
	parts := partitionByUser([]ReviewKey{
		{ID: 1, GuestID: 10},
		{ID: 2, GuestID: 20},
		{ID: 3, GuestID: 10},
		{ID: 4, GuestID: 30},
		{ID: 5, GuestID: 20},
	})
	assert.Equal(t, [][]ReviewKey{
		{{ID: 1, GuestID: 10}, {ID: 3, GuestID: 10}},
		{{ID: 2, GuestID: 20}, {ID: 5, GuestID: 20}},
		{{ID: 4, GuestID: 30}},
	}, parts)
}
