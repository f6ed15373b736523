package services

import (
	"context"
	"time"

	"bookingtour/constants"
	"bookingtour/dto"

	"github.com/redis/go-redis/v9"
)

func SaveLastFilters(ctx context.Context, rdb *redis.Client, key string, filters *dto.TourSearchFilters) error {
	return SetToRedis(ctx, rdb, constants.CacheKeyLastFilters+key, filters, constants.LastFiltersTTL)
}

// GetLastFilters trả về nil khi chưa có bộ lọc nào được lưu cho phiên
func GetLastFilters(ctx context.Context, rdb *redis.Client, key string) (*dto.TourSearchFilters, error) {
	var filters dto.TourSearchFilters
	hit, err := GetFromRedis(ctx, rdb, constants.CacheKeyLastFilters+key, &filters)
	if err != nil || !hit {
		return nil, err
	}
	return &filters, nil
}

func ClearLastFilters(ctx context.Context, rdb *redis.Client, key string) error {
	return DeleteFromRedis(ctx, rdb, constants.CacheKeyLastFilters+key)
}

// Merge yêu cầu cũ với yêu cầu mới
func MergeFilters(old *dto.TourSearchFilters, new *dto.TourSearchFilters) *dto.TourSearchFilters {
	if old == nil {
		return new
	}
	new.Query = orString(new.Query, old.Query)
	new.Destination = orString(new.Destination, old.Destination)
	new.MaxDuration = orIntPointer(new.MaxDuration, old.MaxDuration)
	new.FromDate = orTimePointer(new.FromDate, old.FromDate)
	if new.Limit == 0 {
		new.Limit = old.Limit
	}

	// Gộp tags
	new.Tags = mergeUniqueStrings(old.Tags, new.Tags)

	//Xử lý case người dùng nhập lại PriceMax và PriceMin
	if new.PriceMin != nil && old.PriceMax != nil && new.PriceMin.GreaterThan(*old.PriceMax) {
		new.PriceMax = nil
	} else if new.PriceMax == nil {
		new.PriceMax = old.PriceMax
	}

	if new.PriceMax != nil && old.PriceMin != nil && new.PriceMax.LessThan(*old.PriceMin) {
		new.PriceMin = nil
	} else if new.PriceMin == nil {
		new.PriceMin = old.PriceMin
	}
	return new
}

func orString(newVal, oldVal string) string {
	if newVal != "" {
		return newVal
	}
	return oldVal
}

func orIntPointer(newVal, oldVal *int) *int {
	if newVal != nil {
		return newVal
	}
	return oldVal
}

func orTimePointer(newVal, oldVal *time.Time) *time.Time {
	if newVal != nil {
		return newVal
	}
	return oldVal
}

func mergeUniqueStrings(a, b []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, val := range a {
		if !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	for _, val := range b {
		if !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}
