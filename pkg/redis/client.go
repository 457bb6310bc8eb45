package redis

import (
	"github.com/redis/go-redis/v9"

	"communityhub/config"
)

// NewRedisClient builds the shared Redis client used for the leaderboard
// cache and the realtime refresh channel.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
