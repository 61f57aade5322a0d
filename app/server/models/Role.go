package models

// Role 是封闭的角色枚举，注册时默认为 RoleUser ，只能由管理员调整
type Role string

const (
	RoleUser   Role = "USER"
	RoleAdmin  Role = "ADMIN"
	RoleReader Role = "READER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleReader:
		return true
	}
	return false
}
