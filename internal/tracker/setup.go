package tracker

import (
	"fmt"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
)

// migrateDB 负责自动迁移数据库表结构
func migrateDB() error {
	if err := database.DB.AutoMigrate(&DailyEntry{}); err != nil {
		return fmt.Errorf("无法迁移daily_tracker表: %w", err)
	}
	fmt.Println("DailyEntry数据库表迁移成功。")
	return nil
}

// PrimeModule 是tracker模块的初始化总入口
func PrimeModule() error {
	return migrateDB()
}
