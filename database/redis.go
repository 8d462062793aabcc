package database

import (
	"context"

	"github.com/lehuyba/InterviewAce/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedisClient connects to Redis for session progress snapshots. The
// connection is probed once at startup so a bad address fails loudly, but
// the application still runs without Redis; the session layer keeps an
// in-memory copy of everything it stores.
func NewRedisClient(cfg *config.Config) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, session progress will only live in memory")
	} else {
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	}
	return client
}
