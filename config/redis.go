package config

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ConnectRedis kết nối đến Redis. Không cấu hình địa chỉ thì trả về nil, cache bị tắt.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		log.Println("REDIS_ADDR trống, chạy không có cache")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := rdb.Ping(ctx).Result()
	if err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}

	log.Println("Kết nối Redis thành công:", res)
	return rdb, nil
}
