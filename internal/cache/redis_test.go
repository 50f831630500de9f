package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstay-go/internal/stamp"
	"farmstay-go/pkg/logger"
	"farmstay-go/pkg/model"
)

func newTestCache(t *testing.T) *RankingCache {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	c, err := NewRankingCache(context.Background(), url, time.Minute, logger.NewNop())
	require.NoError(t, err)
	c.Invalidate(context.Background())
	t.Cleanup(func() {
		c.Invalidate(context.Background())
		c.Close()
	})
	return c
}

func TestRankingCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, 10)
	assert.False(t, ok)

	page := &stamp.RankingPage{
		Entries:    []model.RankEntry{{GuestID: 7, GuestName: "alice", TotalPrefectures: 3}},
		TotalUsers: 1,
	}
	c.Set(ctx, 10, page)

	got, ok := c.Get(ctx, 10)
	require.True(t, ok)
	assert.Equal(t, page, got)

	_, ok = c.Get(ctx, 20)
	assert.False(t, ok, "pages are keyed by limit")

	c.Invalidate(ctx)
	_, ok = c.Get(ctx, 10)
	assert.False(t, ok)
}

func TestNewRankingCacheRejectsBadURL(t *testing.T) {
	_, err := NewRankingCache(context.Background(), "not a url", time.Minute, logger.NewNop())
	assert.Error(t, err)
}
