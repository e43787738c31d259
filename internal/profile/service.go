package profile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/config"
	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
	"github.com/SlpAus/ramadan-tracker-backend/pkg/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- 错误分类 ---
// 认证类错误对应固定的用户提示，数据类错误向上传递后统一提示。

var (
	// ErrAccountExists 表示用户名或邮箱已被注册
	ErrAccountExists = errors.New("用户名或邮箱已被注册")
	// ErrInvalidCredentials 表示登录凭据不正确
	ErrInvalidCredentials = errors.New("用户名或密码不正确")
	// ErrInvalidInput 表示注册信息不完整或不合法
	ErrInvalidInput = errors.New("注册信息不合法")
)

// Register 创建一个新的用户档案。
// 用户名和邮箱唯一，密码以bcrypt哈希存储，明文不落盘。
func Register(username, email, password, displayName string) (*Profile, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || len(password) < 6 {
		return nil, ErrInvalidInput
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), config.Cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("无法哈希密码: %w", err)
	}

	newID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("无法生成UUID v7: %w", err)
	}

	newProfile := Profile{
		ID:           newID.String(),
		Username:     username,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	}
	if err := database.DB.Create(&newProfile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("无法创建用户档案: %w", err)
	}

	CacheProfileID(newProfile.ID)
	return &newProfile, nil
}

// Authenticate 校验登录凭据，成功时返回对应的档案。
// 标识符可以是用户名或邮箱。任何不匹配都返回同一个ErrInvalidCredentials，
// 不泄露账号是否存在。
func Authenticate(identifier, password string) (*Profile, error) {
	identifier = strings.TrimSpace(identifier)

	var p Profile
	err := database.DB.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户档案失败: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &p, nil
}

// GetProfileByID 按主键读取档案；不存在时返回nil而不是错误。
func GetProfileByID(id string) (*Profile, error) {
	var p Profile
	err := database.DB.Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("查询用户档案失败: %w", err)
	}
	return &p, nil
}

// GetAllProfiles 读取全部档案，供聚合引擎初始化累加器。
func GetAllProfiles() ([]Profile, error) {
	var profiles []Profile
	if err := database.DB.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("读取用户档案列表失败: %w", err)
	}
	return profiles, nil
}

// --- 会话管理 ---

// CreateSession 为已认证的用户签发一个新的会话令牌，
// 并在Redis中登记以支持登出撤销。
func CreateSession(userID string) (string, error) {
	sessionID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("无法生成会话ID: %w", err)
	}

	ttl := config.Cfg.Auth.SessionTTL()
	payload := token.SessionPayload{
		SessionID: sessionID.String(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	signed, err := token.SignSession(payload)
	if err != nil {
		return "", err
	}

	registerSession(payload.SessionID, userID, ttl)
	return signed, nil
}

// DestroySession 撤销一个会话。签名本身无法收回，
// 撤销依赖Redis中的登记记录。
func DestroySession(sessionID string) {
	if err := revokeSession(sessionID); err != nil {
		fmt.Printf("警告: 撤销会话 %s 失败: %v\n", sessionID, err)
	}
}

// ValidateSession 验证令牌并返回其payload。
// 签名、有效期、撤销状态三者全部通过才算有效。
func ValidateSession(tokenStr string) (token.SessionPayload, error) {
	payload, err := token.ParseSession(tokenStr, time.Now())
	if err != nil {
		return payload, err
	}
	if isSessionRevoked(payload.SessionID) {
		return payload, token.ErrExpiredToken
	}
	return payload, nil
}
