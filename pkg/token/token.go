package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// secretKey 是一个全局变量，用于存储服务器在启动时生成的32字节密钥。
// 密钥不落盘，因此重启会使所有已发放的会话失效。
var secretKey []byte

// SessionPayload 定义了会话令牌中需要被签名的数据结构。
// 它会出现在登录响应的Cookie中，并在每个受保护的请求里被验证。
type SessionPayload struct {
	SessionID string `json:"s"`
	UserID    string `json:"u"`
	ExpiresAt int64  `json:"e"` // Unix秒
}

var (
	// ErrMalformedToken 表示令牌的结构无法解析
	ErrMalformedToken = errors.New("会话令牌格式错误")
	// ErrBadSignature 表示令牌的签名验证失败
	ErrBadSignature = errors.New("会话令牌签名无效")
	// ErrExpiredToken 表示令牌已过有效期
	ErrExpiredToken = errors.New("会话令牌已过期")
)

// GenerateSecretKey 生成一个密码学安全的32字节随机密钥。
func GenerateSecretKey() {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("HMAC密钥已成功生成。")
}

func sign(payloadBytes []byte) []byte {
	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	return mac.Sum(nil)
}

// SignSession 为一个给定的SessionPayload生成带HMAC-SHA256签名的令牌。
// 格式为 base64url(payload) + "." + base64url(signature)。
func SignSession(payload SessionPayload) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", errors.New("无法序列化会话payload")
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	encodedSignature := base64.RawURLEncoding.EncodeToString(sign(payloadBytes))
	return encodedPayload + "." + encodedSignature, nil
}

// ParseSession 验证令牌的签名和有效期，并返回其中的payload。
func ParseSession(tokenStr string, now time.Time) (SessionPayload, error) {
	var payload SessionPayload

	encodedPayload, encodedSignature, found := strings.Cut(tokenStr, ".")
	if !found {
		return payload, ErrMalformedToken
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return payload, ErrMalformedToken
	}
	actualSignature, err := base64.RawURLEncoding.DecodeString(encodedSignature)
	if err != nil {
		return payload, ErrMalformedToken
	}

	// 使用 hmac.Equal 进行时间恒定的比较，防止时序攻击
	if !hmac.Equal(sign(payloadBytes), actualSignature) {
		return payload, ErrBadSignature
	}

	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return payload, ErrMalformedToken
	}

	if now.Unix() >= payload.ExpiresAt {
		return payload, ErrExpiredToken
	}

	return payload, nil
}
