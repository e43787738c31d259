package profile

import (
	"time"

	"gorm.io/gorm"
)

// Profile 定义了用户在数据库中的持久化模型。
// 注册时由认证流程创建，之后对业务逻辑是只读的身份数据。
type Profile struct {
	// ID 是用户的主键，UUID字符串
	ID string `gorm:"primarykey;type:varchar(36)"`

	// Username 是注册时选择的唯一用户名
	Username string `gorm:"uniqueIndex;not null;type:varchar(64)"`

	// Email 是登录凭据之一，唯一
	Email string `gorm:"uniqueIndex;not null;type:varchar(255)"`

	// DisplayName 是展示用昵称，可以与用户名不同
	DisplayName string `gorm:"type:varchar(64)"`

	// PasswordHash 是bcrypt哈希后的密码
	PasswordHash string `gorm:"not null"`

	// 部分gorm.Model，由GORM自动管理
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Name 返回用于展示和排序的名称，展示名为空时退回用户名。
func (p Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}
