package stamp

import (
	"context"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"farmstay-go/internal/region"
	"farmstay-go/internal/testutil"
	"farmstay-go/pkg/logger"
)

type fixture struct {
	db      *sqlx.DB
	store   *Store
	catalog *region.Catalog
	cache   *memCache
	sync    *Synchronizer
	host    int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	catalog := region.NewCatalog(db)
	_, err := catalog.Seed(context.Background())
	require.NoError(t, err)

	store := NewStore(db)
	cache := newMemCache()
	return &fixture{
		db:      db,
		store:   store,
		catalog: catalog,
		cache:   cache,
		sync:    NewSynchronizer(store, catalog, cache, logger.NewNop()),
		host:    testutil.CreateUser(t, db, "host"),
	}
}

func (f *fixture) farm(t *testing.T, name, prefecture string) int {
	t.Helper()
	return testutil.CreateFarm(t, f.db, f.host, name, prefecture, "harvest")
}

// apply synchronizes a review and requires it to be applied
func (f *fixture) apply(t *testing.T, reviewID int) Outcome {
	t.Helper()
	out, err := f.sync.Synchronize(context.Background(), reviewID)
	require.NoError(t, err)
	require.Equal(t, StatusApplied, out.Status)
	return out
}

// visit creates a review at farmID on date and applies it
func (f *fixture) visit(t *testing.T, userID, farmID int, date string) int {
	t.Helper()
	id := testutil.CreateReview(t, f.db, userID, farmID, date)
	f.apply(t, id)
	return id
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

type memCache struct {
	mu          sync.Mutex
	pages       map[int]*RankingPage
	invalidated int
}

func newMemCache() *memCache {
	return &memCache{pages: map[int]*RankingPage{}}
}

func (c *memCache) Get(_ context.Context, limit int) (*RankingPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pages[limit]
	return p, ok
}

func (c *memCache) Set(_ context.Context, limit int, page *RankingPage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[limit] = page
}

func (c *memCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = map[int]*RankingPage{}
	c.invalidated++
}

func (c *memCache) invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidated
}
