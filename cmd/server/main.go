package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/ramadan-tracker-backend/api"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/config"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/health"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/shutdown"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/startup"
	"github.com/SlpAus/ramadan-tracker-backend/pkg/lifecycle"
	"github.com/SlpAus/ramadan-tracker-backend/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env中的变量会被viper的AutomaticEnv读到，文件不存在则跳过
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	token.GenerateSecretKey()
	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 获取初始Run ID，供健康检查器检测Redis重启
	health.InitializeRunID()

	// 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 创建两阶段停机的生命周期管理器
	gracefulMgr := lifecycle.NewManager()
	forcefulMgr := lifecycle.NewManager()

	// 异步启动后台的持续健康检查器
	healthHandle, err := gracefulMgr.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(fmt.Sprintf("注册健康检查器失败: %v", err))
	}
	go health.StartRedisHealthCheck(healthHandle)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	// 显式的读写超时，避免挂死的连接占用资源
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	// 阻塞等待停机信号并编排优雅停机
	coordinator := shutdown.NewCoordinator(gracefulMgr, forcefulMgr)
	coordinator.ListenForSignalsAndShutdown(server)
}
