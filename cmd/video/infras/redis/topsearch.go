package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"vidtube.com/cmd/video/service"
)

const topSearchKey = "search:top"

// TopSearches counts search phrases in a sorted set.
type TopSearches struct {
	client *redis.Client
}

func NewTopSearches(client *redis.Client) *TopSearches {
	return &TopSearches{client: client}
}

// Incr bumps text and trims the set to the capacity highest counts.
func (t *TopSearches) Incr(ctx context.Context, text string, capacity int64) error {
	pipe := t.client.TxPipeline()
	pipe.ZIncrBy(ctx, topSearchKey, 1, text)
	pipe.ZRemRangeByRank(ctx, topSearchKey, 0, -capacity-1)
	_, err := pipe.Exec(ctx)
	return err
}

func (t *TopSearches) Top(ctx context.Context, limit int64) ([]service.SearchCount, error) {
	zs, err := t.client.ZRevRangeWithScores(ctx, topSearchKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]service.SearchCount, 0, len(zs))
	for _, z := range zs {
		text, _ := z.Member.(string)
		out = append(out, service.SearchCount{SearchText: text, Count: int64(z.Score)})
	}
	return out, nil
}

var _ service.SearchCounter = (*TopSearches)(nil)
