package startup

import (
	"fmt"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/metadata"
	"github.com/SlpAus/ramadan-tracker-backend/internal/profile"
	"github.com/SlpAus/ramadan-tracker-backend/internal/stats"
	"github.com/SlpAus/ramadan-tracker-backend/internal/tracker"
)

// InitializeApplication 是应用首次启动时执行的总入口
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := metadata.PrimeCachedDB(); err != nil {
		return err
	}
	if err := profile.PrimeCachedDB(); err != nil {
		return err
	}
	if err := tracker.PrimeModule(); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}

// RebuildCache 在运行时热重建Redis中的全部派生数据。
// 在Redis重启后由健康检查器调用；SQLite是唯一的事实来源，
// 重建只是重新预热缓存和版本号。
func RebuildCache() error {
	fmt.Println("开始缓存热重建...")

	if err := metadata.WarmupCache(); err != nil {
		return err
	}
	if err := profile.WarmupCache(); err != nil {
		return err
	}
	if err := stats.ClearCache(); err != nil {
		return fmt.Errorf("清除对比表缓存失败: %w", err)
	}

	fmt.Println("缓存热重建完成。")
	return nil
}
