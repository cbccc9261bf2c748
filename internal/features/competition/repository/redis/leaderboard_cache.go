package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"fishing-tournament-backend/internal/features/competition/models"
)

var ErrCacheMiss = errors.New("leaderboard cache miss")

// LeaderboardCache stores computed standings with a TTL so read-heavy
// leaderboard queries skip the refold while a competition is active.
type LeaderboardCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *goredis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

func key(competitionID string) string {
	return fmt.Sprintf("leaderboard:%s", competitionID)
}

func (c *LeaderboardCache) Get(ctx context.Context, competitionID string) ([]models.LeaderboardEntry, error) {
	data, err := c.client.Get(ctx, key(competitionID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var standings []models.LeaderboardEntry
	if err := json.Unmarshal(data, &standings); err != nil {
		return nil, err
	}
	return standings, nil
}

func (c *LeaderboardCache) Set(ctx context.Context, competitionID string, standings []models.LeaderboardEntry) error {
	data, err := json.Marshal(standings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(competitionID), data, c.ttl).Err()
}

func (c *LeaderboardCache) Invalidate(ctx context.Context, competitionID string) error {
	return c.client.Del(ctx, key(competitionID)).Err()
}
