package profile

import (
	"net/http"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
	"github.com/gin-gonic/gin"
)

const (
	// SessionCookieName 是存放会话令牌的Cookie名
	SessionCookieName = "rt-session"
	// UserIDKey 是Gin上下文中当前用户ID的键
	UserIDKey = "userID"
	// SessionIDKey 是Gin上下文中当前会话ID的键
	SessionIDKey = "sessionID"
)

// RequireSession 验证请求携带的会话Cookie，并把用户ID放入Gin上下文。
// 未认证的请求统一返回401，不区分失败原因。
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先登录"})
			return
		}

		payload, err := ValidateSession(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "登录已失效，请重新登录"})
			return
		}

		// Redis可用时核对令牌中的用户ID确实属于已注册用户，
		// 拦截档案已被删除但签名仍然有效的令牌；
		// Redis不可用或查询出错时退回为只信任签名
		if database.IsRedisHealthy() {
			if known, err := IsKnownProfile(payload.UserID); err == nil && !known {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "登录已失效，请重新登录"})
				return
			}
		}

		c.Set(UserIDKey, payload.UserID)
		c.Set(SessionIDKey, payload.SessionID)
		c.Next()
	}
}

// CurrentUserID 从Gin上下文中取出经过认证的用户ID。
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
