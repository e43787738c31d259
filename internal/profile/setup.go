package profile

import (
	"fmt"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&Profile{}); err != nil {
		return fmt.Errorf("无法迁移profiles表: %w", err)
	}
	fmt.Println("Profile数据库表迁移成功。")
	return nil
}

// WarmupCache 从数据库加载所有已知的用户ID，并预热到Redis的Set中
func WarmupCache() error {
	if !database.IsRedisHealthy() {
		fmt.Println("Redis不可用，跳过用户缓存预热。")
		return nil
	}

	var profiles []Profile
	if err := database.DB.Select("id").Find(&profiles).Error; err != nil {
		return fmt.Errorf("无法读取用户ID列表: %w", err)
	}

	if len(profiles) == 0 {
		fmt.Println("无现有用户数据，无需预热用户缓存。")
		return nil
	}

	ids := make([]interface{}, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}

	// 使用Pipeline批量写入，先清空旧缓存保证一致性
	pipe := database.RDB.Pipeline()
	pipe.Del(database.Ctx, KnownProfilesKey)
	pipe.SAdd(database.Ctx, KnownProfilesKey, ids...)

	if _, err := pipe.Exec(database.Ctx); err != nil {
		return fmt.Errorf("预热用户ID到Redis失败: %w", err)
	}

	fmt.Printf("成功预热 %d 个用户ID到Redis。\n", len(profiles))
	return nil
}

// PrimeCachedDB 是profile模块的初始化总入口
func PrimeCachedDB() error {
	if err := migrateDB(); err != nil {
		return err
	}
	if err := WarmupCache(); err != nil {
		return err
	}
	return nil
}
