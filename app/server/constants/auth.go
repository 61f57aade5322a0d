package constants

import "time"

const (
	DefaultAccessTokenTTL  = 15 * time.Minute   // 访问令牌默认有效期
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour // 刷新令牌默认有效期
	PasswordResetTokenTTL  = 1 * time.Hour      // 密码重置令牌有效期
)
