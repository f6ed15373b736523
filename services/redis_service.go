package services

import (
	"context"
	"time"

	"bookingtour/metrics"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// GetFromRedis đọc key vào target. Trả về false khi cache miss hoặc chưa cấu hình Redis.
func GetFromRedis(ctx context.Context, rdb *redis.Client, key string, target interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	cachedData, err := rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.CacheLookups.WithLabelValues(cacheName(key), "miss").Inc()
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(cachedData, target); err != nil {
		return false, err
	}
	metrics.CacheLookups.WithLabelValues(cacheName(key), "hit").Inc()
	return true, nil
}

// SetToRedis lưu value dạng JSON với ttl
func SetToRedis(ctx context.Context, rdb *redis.Client, key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}
	dataJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, dataJSON, ttl).Err()
}

// DeleteFromRedis xóa các key
func DeleteFromRedis(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// DeleteKeysByPattern xóa mọi key khớp pattern bằng SCAN
func DeleteKeysByPattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	if rdb == nil {
		return nil
	}
	iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return DeleteFromRedis(ctx, rdb, keys...)
}

// ClaimKey đặt key nếu chưa tồn tại. true nghĩa là lần đầu được claim.
// Không có Redis thì luôn trả về true.
func ClaimKey(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}
	return rdb.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
}

func cacheName(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i]
		}
	}
	return key
}
