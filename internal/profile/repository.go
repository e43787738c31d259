package profile

import (
	"fmt"
	"time"

	"github.com/SlpAus/ramadan-tracker-backend/internal/platform/database"
)

// --- Redis 键名常量 ---

const (
	// KnownProfilesKey 是一个Set，用于快速判断一个ID是否属于已注册用户。
	// Member: Profile ID
	KnownProfilesKey = "known_profiles"

	// sessionKeyPrefix 是会话撤销键的前缀。
	// 每个活跃会话对应一个 "session:<session_id>" 的String键，值为用户ID，
	// 并带有与令牌一致的TTL。登出即删除该键。
	sessionKeyPrefix = "session:"
)

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// CacheProfileID 将新注册的用户ID加入已知用户缓存。
// 纯加速用途，失败时只打印警告。
func CacheProfileID(id string) {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.SAdd(database.Ctx, KnownProfilesKey, id).Err(); err != nil {
		fmt.Printf("警告: 无法将用户 %s 加入Redis缓存: %v\n", id, err)
	}
}

// IsKnownProfile 只查询Redis缓存，判断ID是否属于已注册用户。
func IsKnownProfile(id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	exists, err := database.RDB.SIsMember(database.Ctx, KnownProfilesKey, id).Result()
	if err != nil {
		return false, fmt.Errorf("检查Redis用户缓存时出错: %w", err)
	}
	return exists, nil
}

// registerSession 在Redis中登记一个可撤销的会话。
func registerSession(sessionID, userID string, ttl time.Duration) {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.Set(database.Ctx, sessionKey(sessionID), userID, ttl).Err(); err != nil {
		fmt.Printf("警告: 无法登记会话 %s: %v\n", sessionID, err)
	}
}

// revokeSession 从Redis中删除会话，令其立刻失效。
func revokeSession(sessionID string) error {
	if !database.IsRedisHealthy() {
		return fmt.Errorf("redis不可用，无法撤销会话")
	}
	return database.RDB.Del(database.Ctx, sessionKey(sessionID)).Err()
}

// isSessionRevoked 判断一个签名合法的会话是否已被登出。
// 键不存在视为已撤销——这是登出能生效的前提。代价是Redis重启、
// 或在Redis停机期间签发（此时registerSession没有登记成功）的会话，
// 会在Redis恢复后失效，用户需要重新登录一次。
// Redis不可用时无法判断，此时信任签名本身（降级行为）。
func isSessionRevoked(sessionID string) bool {
	if !database.IsRedisHealthy() {
		return false
	}
	exists, err := database.RDB.Exists(database.Ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false
	}
	return exists == 0
}
