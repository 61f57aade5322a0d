package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Drug struct {
	gorm.Model

	// 药品基础信息
	Name         string `gorm:"column:name;index"`   // 药品名称
	Type         string `gorm:"column:type"`         // 剂型，例如 Tablet / Capsule
	Manufacturer string `gorm:"column:manufacturer"` // 生产厂商
	Dosage       string `gorm:"column:dosage"`       // 规格，例如 500mg
	Description  string `gorm:"column:description"`  // 描述

	// 附加信息
	SideEffects          pq.StringArray `gorm:"column:side_effects;type:text"` // 副作用列表，以数组字面量形式储存
	PrescriptionRequired bool           `gorm:"column:prescription_required"`  // 是否为处方药
}
