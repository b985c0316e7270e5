package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis nil kalau REDIS_ADDR tidak diisi (mode satu instance).
var Redis *redis.Client

func ConnectRedis(ctx context.Context, addr, password string) error {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return err
	}

	Redis = client
	return nil
}
