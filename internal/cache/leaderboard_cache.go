package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HACKWAVE2025/B48-sub000/internal/model"
)

const publishTimeout = 5 * time.Second

// LeaderboardCache mirrors finished-room rankings into Redis for read-side
// consumers. The in-memory room aggregate stays the single source of truth;
// this is a display cache with a TTL, published fire-and-forget.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLeaderboardCache creates a leaderboard cache with a 24h TTL
func NewLeaderboardCache(client *redis.Client) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *LeaderboardCache) zkey(code string) string {
	return fmt.Sprintf("room:%s:lb", code)
}

func (c *LeaderboardCache) jsonKey(code string) string {
	return fmt.Sprintf("room:%s:lb:final", code)
}

// Publish writes the final ranking. Never blocks the caller.
func (c *LeaderboardCache) Publish(code string, entries []model.LeaderboardEntry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		pipe := c.client.Pipeline()
		for _, e := range entries {
			pipe.ZAdd(ctx, c.zkey(code), redis.Z{
				Score:  float64(e.Score),
				Member: e.ID,
			})
		}
		pipe.Expire(ctx, c.zkey(code), c.ttl)

		data, err := json.Marshal(entries)
		if err == nil {
			pipe.Set(ctx, c.jsonKey(code), data, c.ttl)
		}

		if _, err := pipe.Exec(ctx); err != nil {
			log.Printf("leaderboard cache: publish for room %s failed: %v", code, err)
		}
	}()
}

// GetFinal reads a mirrored ranking back, or nil when absent/expired
func (c *LeaderboardCache) GetFinal(ctx context.Context, code string) ([]model.LeaderboardEntry, error) {
	data, err := c.client.Get(ctx, c.jsonKey(code)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []model.LeaderboardEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
