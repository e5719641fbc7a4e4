// Package redis provides a Redis-backed cache for computed group
// leaderboards. The cache is optional: the service layer treats a nil
// cache as disabled and recomputes on every read.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maktab/hifdh-api/internal/domain/progress"
	"github.com/maktab/hifdh-api/internal/platform/logger"
)

// ErrCacheMiss is returned by Get when no leaderboard is cached for the group.
var ErrCacheMiss = errors.New("leaderboard not cached")

// LeaderboardCache stores ranked leaderboards per group with a TTL.
// All methods degrade gracefully: a Redis failure is reported to the
// caller, which is expected to fall back to recomputing.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewLeaderboardCache creates a leaderboard cache on the given Redis
// client. If logger is nil, a default logger will be used.
func NewLeaderboardCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *LeaderboardCache {
	if client == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "leaderboard_cache")),
	}
}

func key(groupID int) string {
	return fmt.Sprintf("leaderboard:group:%d", groupID)
}

// Get returns the cached leaderboard for the group, or ErrCacheMiss.
func (c *LeaderboardCache) Get(ctx context.Context, groupID int) ([]progress.RankedStudent, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	data, err := c.client.Get(ctx, key(groupID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		log.Warn("leaderboard cache read failed",
			slog.String("error", err.Error()),
			slog.Int("group_id", groupID))
		return nil, fmt.Errorf("read leaderboard cache: %w", err)
	}

	var leaderboard []progress.RankedStudent
	if err := json.Unmarshal(data, &leaderboard); err != nil {
		log.Warn("leaderboard cache entry corrupt, dropping",
			slog.String("error", err.Error()),
			slog.Int("group_id", groupID))
		c.client.Del(ctx, key(groupID))
		return nil, ErrCacheMiss
	}
	return leaderboard, nil
}

// Set stores the leaderboard for the group with the configured TTL.
func (c *LeaderboardCache) Set(ctx context.Context, groupID int, leaderboard []progress.RankedStudent) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	data, err := json.Marshal(leaderboard)
	if err != nil {
		return fmt.Errorf("marshal leaderboard: %w", err)
	}
	if err := c.client.Set(ctx, key(groupID), data, c.ttl).Err(); err != nil {
		log.Warn("leaderboard cache write failed",
			slog.String("error", err.Error()),
			slog.Int("group_id", groupID))
		return fmt.Errorf("write leaderboard cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached leaderboard for the group. Called after
// any mutation touching a student in the group.
func (c *LeaderboardCache) Invalidate(ctx context.Context, groupID int) error {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if err := c.client.Del(ctx, key(groupID)).Err(); err != nil {
		log.Warn("leaderboard cache invalidation failed",
			slog.String("error", err.Error()),
			slog.Int("group_id", groupID))
		return fmt.Errorf("invalidate leaderboard cache: %w", err)
	}
	return nil
}
