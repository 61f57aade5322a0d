package models

import "gorm.io/gorm"

type User struct {
	gorm.Model

	// 基础信息
	Email    string `gorm:"column:email;uniqueIndex"`    // 邮箱，全局唯一，可以用于登录
	Username string `gorm:"column:username;uniqueIndex"` // 用户名，全局唯一，注册时未指定则回落为邮箱
	Name     string `gorm:"column:name"`                 // 显示名称

	// 联系与配送信息
	Address       string `gorm:"column:address"`        // 配送地址
	PhoneNumber   string `gorm:"column:phone_number"`   // 联系电话
	PaymentMethod string `gorm:"column:payment_method"` // 支付方式

	// 登录与授权认证相关
	Password string `gorm:"column:password"` // 密码，使用 argon2id 储存
	Role     Role   `gorm:"column:role"`     // 角色：管理员可以写入（更改），普通用户管理自己的处方，只读用户只能浏览
}
