package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PrescriptionStatusActive  = "ACTIVE"
	PrescriptionStatusExpired = "EXPIRED"
)

type Prescription struct {
	gorm.Model

	// 归属关系
	UserID uint `gorm:"column:user_id;index"` // 处方所属的用户 ID
	DrugID uint `gorm:"column:drug_id;index"` // 开具的药品 ID

	// 用药指示
	Dosage           string     `gorm:"column:dosage"`            // 用量，例如 500mg
	Frequency        string     `gorm:"column:frequency"`         // 频次，例如 Twice daily
	Status           string     `gorm:"column:status"`            // 状态： ACTIVE / EXPIRED
	RefillsRemaining int        `gorm:"column:refills_remaining"` // 剩余续配次数
	LastRefill       *time.Time `gorm:"column:last_refill"`       // 上次续配日期
	NextRefill       *time.Time `gorm:"column:next_refill"`       // 下次可续配日期

	// 有效期
	IssuedAt  time.Time `gorm:"column:issued_at"`  // 开具时间
	ExpiresAt time.Time `gorm:"column:expires_at"` // 过期时间

	// 连接模型时使用
	Drug Drug `gorm:"foreignKey:DrugID"` // 药品
}
