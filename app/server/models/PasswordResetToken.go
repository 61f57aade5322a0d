package models

import (
	"time"

	"gorm.io/gorm"
)

// PasswordResetToken 在重置确认成功后会连同该用户的其它重置令牌一起删除
type PasswordResetToken struct {
	gorm.Model

	Token     string    `gorm:"column:token;uniqueIndex"` // 随机令牌串，全局唯一
	ExpiresAt time.Time `gorm:"column:expires_at"`        // 过期时间，访问时惰性检查
	UserID    uint      `gorm:"column:user_id;index"`     // 所属用户 ID
}
