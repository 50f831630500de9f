// Package cache holds the Redis-backed leaderboard cache.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"

	"farmstay-go/internal/stamp"
	"farmstay-go/pkg/logger"
)

const rankingKey = "stamp:ranking"

// RankingCache stores leaderboard pages in one Redis hash, one field per limit.
// Cache errors are logged and treated as misses.
type RankingCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

// NewRankingCache connects to the Redis server at url and pings it
func NewRankingCache(ctx context.Context, url string, ttl time.Duration, log *logger.Logger) (*RankingCache, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}
	rdb := goredis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RankingCache{
		rdb: rdb,
		ttl: ttl,
		log: log.With("service", "RankingCache"),
	}, nil
}

// Get returns the cached page for limit
func (c *RankingCache) Get(ctx context.Context, limit int) (*stamp.RankingPage, bool) {
	raw, err := c.rdb.HGet(ctx, rankingKey, strconv.Itoa(limit)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("Failed to read ranking cache", "limit", limit, "error", err)
		}
		return nil, false
	}
	var page stamp.RankingPage
	if err := json.Unmarshal(raw, &page); err != nil {
		c.log.Warn("Discarding unreadable ranking cache entry", "limit", limit, "error", err)
		return nil, false
	}
	return &page, true
}

// Set caches page for limit. The whole hash expires ttl after its first write.
func (c *RankingCache) Set(ctx context.Context, limit int, page *stamp.RankingPage) {
	raw, err := json.Marshal(page)
	if err != nil {
		c.log.Warn("Failed to encode ranking page", "limit", limit, "error", err)
		return
	}
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, rankingKey, strconv.Itoa(limit), raw)
	pipe.ExpireNX(ctx, rankingKey, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("Failed to write ranking cache", "limit", limit, "error", err)
	}
}

// Invalidate drops every cached page
func (c *RankingCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, rankingKey).Err(); err != nil {
		c.log.Warn("Failed to invalidate ranking cache", "error", err)
	}
}

func (c *RankingCache) Close() error {
	return c.rdb.Close()
}
