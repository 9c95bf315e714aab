package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	teamapp "github.com/shopx/backoffice/internal/application/team"
)

// RedisLeaderboard implements LeaderboardStore using Redis sorted sets,
// one set per period keyed "leaderboard:<period>".
type RedisLeaderboard struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisLeaderboard creates a leaderboard store over an existing client
func NewRedisLeaderboard(client *redis.Client) *RedisLeaderboard {
	return &RedisLeaderboard{
		client:    client,
		keyPrefix: "leaderboard:",
	}
}

func (l *RedisLeaderboard) key(period string) string {
	return l.keyPrefix + period
}

// UpdateScore upserts the member's team sales score for the period
func (l *RedisLeaderboard) UpdateScore(ctx context.Context, period string, memberID string, score float64) error {
	if err := l.client.ZAdd(ctx, l.key(period), redis.Z{
		Score:  score,
		Member: memberID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to update leaderboard score: %w", err)
	}
	return nil
}

// Top returns the highest scored members, best first
func (l *RedisLeaderboard) Top(ctx context.Context, period string, limit int64) ([]teamapp.LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	scored, err := l.client.ZRevRangeWithScores(ctx, l.key(period), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]teamapp.LeaderboardEntry, 0, len(scored))
	for _, z := range scored {
		memberID, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, teamapp.LeaderboardEntry{
			MemberID: memberID,
			Score:    z.Score,
		})
	}
	return entries, nil
}

// Ensure RedisLeaderboard implements LeaderboardStore
var _ teamapp.LeaderboardStore = (*RedisLeaderboard)(nil)
