package config

import "time"

type Config struct {
	System struct {
		IsProd                bool   // 是否为生产环境
		Listen                string // 监听地址
		DBConnectionString    string // Postgres 数据库的连接字符串
		RedisConnectionString string // Redis 数据库的连接字符串
		FrontendURL           string // 前端地址，用于拼接密码重置链接
	}
	Security struct {
		SignatureSecretKey string        // 签名密钥，用于签发 JWT ，更新会导致旧有会话失效，但不影响使用
		AccessTokenTTL     time.Duration // 访问令牌有效期
		RefreshTokenTTL    time.Duration // 刷新令牌有效期
	}
	Mail struct {
		Host     string // SMTP 服务器地址，不设置时邮件只写入日志
		Port     int    // SMTP 端口
		Username string // SMTP 用户名，可以为空
		Password string // SMTP 密码
		From     string // 发件人地址
	}
}
