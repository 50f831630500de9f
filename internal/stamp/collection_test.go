package stamp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstay-go/internal/region"
	"farmstay-go/internal/testutil"
)

func TestBuildCollectionEmpty(t *testing.T) {
	f := newFixture(t)
	builder := NewCollectionBuilder(f.store, f.catalog, region.TotalPrefectures)
	guest := testutil.CreateUser(t, f.db, "guest")

	resp, err := builder.BuildCollection(context.Background(), guest)
	require.NoError(t, err)
	assert.Zero(t, resp.Summary)
	require.Len(t, resp.Stamps, region.TotalPrefectures)
	for _, s := range resp.Stamps {
		assert.False(t, s.IsVisited, s.PrefectureCode)
		assert.Nil(t, s.FirstVisitDate)
	}
	assert.Equal(t, "01", resp.Stamps[0].PrefectureCode)
	assert.Equal(t, "47", resp.Stamps[46].PrefectureCode)
}

func TestBuildCollection(t *testing.T) {
	f := newFixture(t)
	builder := NewCollectionBuilder(f.store, f.catalog, region.TotalPrefectures)
	guest := testutil.CreateUser(t, f.db, "guest")
	orchard := f.farm(t, "Orchard", "Nagano")

	f.visit(t, guest, orchard, "2024-09-01")
	f.visit(t, guest, orchard, "2024-10-01")
	f.visit(t, guest, f.farm(t, "Dairy", "Hokkaido"), "2024-07-01")
	f.visit(t, guest, f.farm(t, "Fish", "Hokkaido"), "2024-07-02")

	resp, err := builder.BuildCollection(context.Background(), guest)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Summary.TotalPrefectures)
	assert.Equal(t, 4, resp.Summary.TotalVisits)
	assert.Equal(t, 3, resp.Summary.TotalFarms)
	assert.Equal(t, 4.3, resp.Summary.CompletionRate)

	byCode := map[string]int{}
	for i, s := range resp.Stamps {
		byCode[s.PrefectureCode] = i
	}
	nagano := resp.Stamps[byCode["20"]]
	assert.True(t, nagano.IsVisited)
	assert.Equal(t, "長野県", nagano.Name)
	assert.Equal(t, "chubu", nagano.Region)
	assert.Equal(t, 2, nagano.VisitCount)
	assert.Equal(t, 1, nagano.UniqueFarmCount)
	require.NotNil(t, nagano.FirstVisitDate)
	assert.Equal(t, "2024-09-01", testutil.DateString(*nagano.FirstVisitDate))
	assert.Equal(t, "2024-10-01", testutil.DateString(*nagano.LastVisitDate))

	assert.Equal(t, 2, resp.Stamps[byCode["01"]].UniqueFarmCount)
	assert.False(t, resp.Stamps[byCode["13"]].IsVisited)
}

func TestBuildCollectionHidesInactiveRegions(t *testing.T) {
	f := newFixture(t)
	_, err := f.db.Exec(f.db.Rebind("UPDATE regions SET is_active = ? WHERE code = ?"), false, "47")
	require.NoError(t, err)
	builder := NewCollectionBuilder(f.store, f.catalog, region.TotalPrefectures)

	resp, err := builder.BuildCollection(context.Background(), testutil.CreateUser(t, f.db, "guest"))
	require.NoError(t, err)
	assert.Len(t, resp.Stamps, region.TotalPrefectures-1)
}

func TestPrefectureDetail(t *testing.T) {
	f := newFixture(t)
	builder := NewCollectionBuilder(f.store, f.catalog, region.TotalPrefectures)
	ctx := context.Background()
	guest := testutil.CreateUser(t, f.db, "guest")
	orchard := f.farm(t, "Orchard", "Nagano")
	winery := f.farm(t, "Winery", "長野県")

	older := f.visit(t, guest, orchard, "2024-03-01")
	newer := f.visit(t, guest, winery, "2024-05-01")

	detail, err := builder.PrefectureDetail(ctx, guest, "20")
	require.NoError(t, err)
	assert.Equal(t, "20", detail.PrefectureCode)
	assert.Equal(t, "長野県", detail.Name)
	assert.Equal(t, 2, detail.VisitCount)
	assert.Equal(t, 2, detail.UniqueFarmCount)
	assert.Equal(t, "2024-03-01", testutil.DateString(detail.FirstVisitDate))
	require.Len(t, detail.VisitedFarms, 2)
	assert.Equal(t, newer, detail.VisitedFarms[0].ReviewID)
	assert.Equal(t, "Winery", detail.VisitedFarms[0].FarmName)
	assert.Equal(t, older, detail.VisitedFarms[1].ReviewID)
	assert.Equal(t, "harvest", detail.VisitedFarms[1].ExperienceType)
}

func TestPrefectureDetailNotVisited(t *testing.T) {
	f := newFixture(t)
	builder := NewCollectionBuilder(f.store, f.catalog, region.TotalPrefectures)
	guest := testutil.CreateUser(t, f.db, "guest")

	_, err := builder.PrefectureDetail(context.Background(), guest, "20")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = builder.PrefectureDetail(context.Background(), guest, "99")
	assert.ErrorIs(t, err, ErrNotFound)
}
