package redis

import (
	"context"
	"time"

	"clipnest/internal/config"

	"github.com/go-redis/redis/v8"
)

var Ctx = context.Background()

// InitRedis 初始化Redis客户端，连通性由Ping确认
func InitRedis() (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.Get("REDIS_PASSWORD", ""),
		DB:       config.GetInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(Ctx, 5*time.Second)
	defer cancel()

	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	return rdb, nil
}
