package redis

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"
)

// Load connects to redis. A failed ping is logged, not fatal; callers find
// out on first use.
func Load(ctx context.Context, addr, password string, db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		hlog.Warnf("redis %s unreachable: %v", addr, err)
	}
	return client
}
