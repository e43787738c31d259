package database

import (
	"fmt"
	"log"
	"os"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的GORM实例，供项目其他部分使用
var DB *gorm.DB

// InitDB 根据配置初始化主数据库连接。
// 默认使用SQLite单文件库；部署到多实例环境时可切换为PostgreSQL。
func InitDB(cfg config.DatabaseConfig) {
	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 在生产环境中保持Silent
			Colorful:      true,
		},
	)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		dialector = sqlite.Open(cfg.Sqlite.Path)
	case "postgres":
		dialector = postgres.Open(cfg.Postgres.DSN)
	default:
		panic(fmt.Sprintf("不支持的数据库驱动: %s", cfg.Driver))
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
	})
	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	fmt.Println("数据库连接成功！")
}
