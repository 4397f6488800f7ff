package config

import (
	"context"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient buffers post view counts; nil when REDIS_ADDR is not set.
var RedisClient *redis.Client

// InitRedis connects to Redis if REDIS_ADDR is configured.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		Logger.Warn("REDIS_ADDR is not set, view counting writes straight to the database")
		return
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       GetenvInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		Logger.Fatal("Error connecting to Redis", zap.Error(err))
	}
	Logger.Info("Connected to Redis", zap.String("ping", s))
}
