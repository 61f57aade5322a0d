package models

import (
	"time"

	"gorm.io/gorm"
)

// RefreshToken 是一次性使用的持久化令牌，使用即旋转（删除旧记录、创建新记录）
type RefreshToken struct {
	gorm.Model

	Token     string    `gorm:"column:token;uniqueIndex"` // 随机令牌串，全局唯一
	ExpiresAt time.Time `gorm:"column:expires_at"`        // 过期时间，访问时惰性检查
	UserID    uint      `gorm:"column:user_id;index"`     // 所属用户 ID
}
