package stats

import (
	"encoding/json"
	"time"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
	"github.com/redis/go-redis/v9"
)

const (
	// CacheKey 是一个 Redis String 的键，用于缓存序列化后的全局对比表。
	CacheKey = "stats:comparison"

	// CacheTTL 是对比表缓存的兜底过期时间。
	// 正常情况下缓存由版本号标签判废，TTL只防止版本号机制失效时无限陈旧。
	CacheTTL = 1 * time.Minute
)

// cachedComparison 是写入Redis的缓存载体。
// Revision记录计算时daily_tracker集合的版本号，
// 任何后续保存都会使版本号前进，令这份缓存被丢弃。
type cachedComparison struct {
	Revision    uint64           `json:"revision"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Rows        []ComparisonRow  `json:"rows"`
	Maxima      map[Category]int `json:"maxima"`
}

// getComparisonCache 从Redis读取缓存的对比表。
// 缓存未命中是正常情况，返回(nil, nil)。
func getComparisonCache() (*cachedComparison, error) {
	result, err := database.RDB.Get(database.Ctx, CacheKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cached cachedComparison
	if err := json.Unmarshal([]byte(result), &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// setComparisonCache 将对比表写入Redis缓存。
func setComparisonCache(cached *cachedComparison) error {
	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	return database.RDB.Set(database.Ctx, CacheKey, data, CacheTTL).Err()
}

// ClearCache 删除缓存的对比表，在缓存热重建时调用。
func ClearCache() error {
	return database.RDB.Del(database.Ctx, CacheKey).Err()
}
