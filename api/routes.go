package api

import (
	"github.com/SlpAus/ramadan-tracker-backend/internal/profile"
	"github.com/SlpAus/ramadan-tracker-backend/internal/stats"
	"github.com/SlpAus/ramadan-tracker-backend/internal/tracker"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由
func SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		// 认证相关的路由组 /api/auth
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", profile.RegisterHandler)
			authRoutes.POST("/login", profile.LoginHandler)
			authRoutes.POST("/logout", profile.RequireSession(), profile.LogoutHandler)
			authRoutes.GET("/me", profile.RequireSession(), profile.MeHandler)
		}

		// 活动信息，无需登录
		api.GET("/campaign", tracker.CampaignHandler)

		// 每日记录相关的路由组 /api/tracker
		trackerRoutes := api.Group("/tracker", profile.RequireSession())
		{
			trackerRoutes.GET("/entry", tracker.GetEntryHandler)
			trackerRoutes.PUT("/entry", tracker.SaveEntryHandler)
			trackerRoutes.GET("/summary", tracker.SummaryHandler)
		}

		// 全局对比表，登录后可见
		api.GET("/stats/comparison", profile.RequireSession(), stats.ComparisonHandler)
	}
}
