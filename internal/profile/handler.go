package profile

import (
	"errors"
	"net/http"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// --- API 请求/响应模型 ---

type RegisterRequestBody struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

type LoginRequestBody struct {
	// Identifier 可以是用户名或邮箱
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type ProfileResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func formatProfile(p *Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Username:    p.Username,
		Email:       p.Email,
		DisplayName: p.Name(),
	}
}

func setSessionCookie(c *gin.Context, tokenStr string, maxAge int) {
	c.SetCookie(SessionCookieName, tokenStr, maxAge, "/", "", config.Cfg.Auth.CookieSecure, true)
}

// --- 控制器函数 ---

// RegisterHandler 处理新用户注册
func RegisterHandler(c *gin.Context) {
	var body RegisterRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	newProfile, err := Register(body.Username, body.Email, body.Password, body.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "注册失败，请稍后重试"})
		}
		return
	}

	c.JSON(http.StatusCreated, formatProfile(newProfile))
}

// LoginHandler 处理密码登录，成功时下发会话Cookie
func LoginHandler(c *gin.Context) {
	var body LoginRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	p, err := Authenticate(body.Identifier, body.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败，请稍后重试"})
		}
		return
	}

	tokenStr, err := CreateSession(p.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败，请稍后重试"})
		return
	}

	setSessionCookie(c, tokenStr, int(config.Cfg.Auth.SessionTTL().Seconds()))
	c.JSON(http.StatusOK, formatProfile(p))
}

// LogoutHandler 撤销当前会话并清除Cookie
func LogoutHandler(c *gin.Context) {
	if sessionID := c.GetString(SessionIDKey); sessionID != "" {
		DestroySession(sessionID)
	}
	setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// MeHandler 返回当前登录用户的档案
func MeHandler(c *gin.Context) {
	p, err := GetProfileByID(CurrentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取用户信息失败"})
		return
	}
	if p == nil {
		// 档案被后台删除而会话仍然有效，按未登录处理
		c.JSON(http.StatusUnauthorized, gin.H{"error": "登录已失效，请重新登录"})
		return
	}
	c.JSON(http.StatusOK, formatProfile(p))
}
