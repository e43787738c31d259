package stats

import (
	"fmt"
	"time"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/metadata"
	"github.com/SlpAus/ramadan-tracker-backend/internal/profile"
	"github.com/SlpAus/ramadan-tracker-backend/internal/tracker"
)

// GetComparison 返回当前的全局对比表（未排序）和各类别最大值。
//
// Redis可用时优先走缓存：只有缓存的版本号与当前条目版本号一致才命中，
// 这保证保存操作之后的读取看到的一定是保存之后的数据，
// 而不会拿到某个迟到的旧计算结果。
// Redis不可用时直接从数据库全量重算，结果语义完全相同。
func GetComparison() ([]ComparisonRow, map[Category]int, error) {
	var currentRev uint64
	revKnown := false

	if database.IsRedisHealthy() {
		rev, err := metadata.CurrentRevision()
		if err == nil {
			currentRev = rev
			revKnown = true
			cached, err := getComparisonCache()
			if err == nil && cached != nil && cached.Revision == currentRev {
				return cached.Rows, cached.Maxima, nil
			}
		}
	}

	// 缓存未命中或不可用：全量重算
	profiles, err := profile.GetAllProfiles()
	if err != nil {
		return nil, nil, err
	}
	entries, err := tracker.GetAllEntries()
	if err != nil {
		return nil, nil, err
	}

	rows, maxima, orphaned := BuildComparison(profiles, entries)
	if orphaned > 0 {
		// 条目和档案的写入没有事务关联，出现悬空条目说明数据完整性已破损，
		// 容忍但必须留下信号
		fmt.Printf("警告: 发现 %d 条没有归属档案的每日记录，已在对比表中忽略。\n", orphaned)
	}

	if revKnown {
		cached := &cachedComparison{
			Revision:    currentRev,
			GeneratedAt: time.Now(),
			Rows:        rows,
			Maxima:      maxima,
		}
		if err := setComparisonCache(cached); err != nil {
			fmt.Printf("警告: 写入对比表缓存失败: %v\n", err)
		}
	}

	return rows, maxima, nil
}
