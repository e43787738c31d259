package metadata

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// --- Generic Accessors ---

// GetValue retrieves a value for a given key from the metadata table.
func GetValue(db *gorm.DB, key string) (string, error) {
	var meta Metadata
	err := db.Where("key = ?", key).First(&meta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// If the key doesn't exist, return an empty string, which is a valid default.
			return "", nil
		}
		return "", err
	}
	return meta.Value, nil
}

// SetValue creates or updates a value for a given key.
func SetValue(db *gorm.DB, key, value string) error {
	// Use GORM's OnConflict clause for an efficient and atomic "upsert" operation.
	meta := Metadata{
		Key:   key,
		Value: value,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&meta).Error
}

// --- Revision Snapshot (SQLite) ---

// GetRevisionSnapshot 读取持久化的条目版本号快照。
func GetRevisionSnapshot(db *gorm.DB) (uint64, error) {
	valueStr, err := GetValue(db, RevisionSnapshotKey)
	if err != nil {
		return 0, err
	}
	if valueStr == "" {
		return 0, nil
	}
	rev, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析元数据 '%s' 的值: %w", RevisionSnapshotKey, err)
	}
	return rev, nil
}

// SetRevisionSnapshot 持久化条目版本号快照。
func SetRevisionSnapshot(db *gorm.DB, revision uint64) error {
	return SetValue(db, RevisionSnapshotKey, strconv.FormatUint(revision, 10))
}

// --- Live Revision (Redis) ---

// CurrentRevision 返回daily_tracker集合的当前版本号。
// Redis不可用时返回0和错误，调用方应将其视为“版本未知”。
func CurrentRevision() (uint64, error) {
	if !database.IsRedisHealthy() {
		return 0, fmt.Errorf("redis不可用，无法读取版本号")
	}
	val, err := database.RDB.Get(database.Ctx, RedisEntriesRevisionKey).Uint64()
	if err != nil {
		return 0, fmt.Errorf("读取条目版本号失败: %w", err)
	}
	return val, nil
}

// BumpRevision 在每次成功保存条目后将版本号加一。
// 这是纯粹的缓存失效信号，失败时只打印警告，不影响保存结果。
func BumpRevision() {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.Incr(database.Ctx, RedisEntriesRevisionKey).Err(); err != nil {
		fmt.Printf("警告: 条目版本号递增失败: %v\n", err)
	}
}

// SnapshotRevision 将当前版本号写回SQLite，供下次启动时接续。
func SnapshotRevision() error {
	rev, err := CurrentRevision()
	if err != nil {
		return err
	}
	return SetRevisionSnapshot(database.DB, rev)
}

// --- Module Initialization ---

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Metadata{}); err != nil {
		return fmt.Errorf("无法迁移metadata表: %w", err)
	}
	fmt.Println("Metadata数据库表迁移成功。")
	return nil
}

// WarmupCache 用持久化的快照初始化Redis中的版本号。
// 快照值加一后写入，保证重启前后缓存标签永不相同。
func WarmupCache() error {
	if !database.IsRedisHealthy() {
		fmt.Println("Redis不可用，跳过版本号预热。")
		return nil
	}

	snapshot, err := GetRevisionSnapshot(database.DB)
	if err != nil {
		return err
	}

	if err := database.RDB.Set(database.Ctx, RedisEntriesRevisionKey, snapshot+1, 0).Err(); err != nil {
		return fmt.Errorf("预热条目版本号到Redis失败: %w", err)
	}

	fmt.Printf("条目版本号已预热: %d\n", snapshot+1)
	return nil
}

// PrimeCachedDB 是metadata模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
