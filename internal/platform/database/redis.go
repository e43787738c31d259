package database

import (
	"context"
	"fmt"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是一个全局的Redis客户端实例，供项目其他部分使用
var RDB *redis.Client

// Ctx 是一个全局的上下文，用于Redis操作
var Ctx = context.Background()

// InitRedis 初始化与Redis数据库的连接
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 使用Ping命令来测试连接是否成功
	_, err := RDB.Ping(Ctx).Result()
	if err != nil {
		// Redis只承担缓存和会话撤销，连接失败时降级运行而不是退出
		fmt.Printf("警告: 无法连接到Redis (%v)，缓存与会话撤销将不可用。\n", err)
		UpdateStatus(false, "")
		return
	}

	fmt.Println("Redis 连接成功！")
}
