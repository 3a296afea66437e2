package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const winsKey = "quizbattle:wins"

// LeaderboardCache handles Redis ZSET operations for the all-time win count.
type LeaderboardCache interface {
	IncrWins(ctx context.Context, name string) error
	GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
	Rank int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

func (c *leaderboardCache) IncrWins(ctx context.Context, name string) error {
	return c.client.ZIncrBy(ctx, winsKey, 1, name).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, winsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = LeaderboardEntry{
			Name: z.Member.(string),
			Wins: int(z.Score),
			Rank: i + 1,
		}
	}
	return entries, nil
}
