package inits

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pharmacy-core/app/server/config"
	"pharmacy-core/app/server/constants"
)

func Config() (cfg *config.Config, err error) {
	cfg = &config.Config{}

	// 手动配置映射，如果这里有什么自动映射工具就好了， viper 好像处理这种基于环境变量的配置也不是很方便
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":1323" // 默认监听地址
	} else {
		cfg.System.Listen = listen
	}

	if dbconn, exist := os.LookupEnv("DB_CONN"); !exist {
		return nil, fmt.Errorf("DB_CONN environment variable not set")
	} else {
		cfg.System.DBConnectionString = dbconn
	}

	if redisconn, exist := os.LookupEnv("REDIS_CONN"); !exist {
		return nil, fmt.Errorf("REDIS_CONN environment variable not set")
	} else {
		cfg.System.RedisConnectionString = redisconn
	}

	if frontend, exist := os.LookupEnv("FRONTEND_URL"); !exist {
		return nil, fmt.Errorf("FRONTEND_URL environment variable not set")
	} else {
		cfg.System.FrontendURL = strings.TrimSuffix(frontend, "/")
	}

	if sigsk, exist := os.LookupEnv("SIGNATURE_SECRET_KEY"); !exist {
		return nil, fmt.Errorf("SIGNATURE_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	// 令牌有效期，不设置时使用默认值
	if ttl, exist := os.LookupEnv("ACCESS_TOKEN_TTL"); !exist {
		cfg.Security.AccessTokenTTL = constants.DefaultAccessTokenTTL
	} else if parsed, err := time.ParseDuration(ttl); err != nil {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_TTL: %w", err)
	} else {
		cfg.Security.AccessTokenTTL = parsed
	}

	if ttl, exist := os.LookupEnv("REFRESH_TOKEN_TTL"); !exist {
		cfg.Security.RefreshTokenTTL = constants.DefaultRefreshTokenTTL
	} else if parsed, err := time.ParseDuration(ttl); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TOKEN_TTL: %w", err)
	} else {
		cfg.Security.RefreshTokenTTL = parsed
	}

	// 邮件配置是可选的，没有 SMTP_HOST 时重置邮件只写入日志
	if host, exist := os.LookupEnv("SMTP_HOST"); exist {
		cfg.Mail.Host = host

		if port, exist := os.LookupEnv("SMTP_PORT"); !exist {
			cfg.Mail.Port = 587 // 默认 submission 端口
		} else if parsed, err := strconv.Atoi(port); err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
		} else {
			cfg.Mail.Port = parsed
		}

		cfg.Mail.Username = os.Getenv("SMTP_USERNAME")
		cfg.Mail.Password = os.Getenv("SMTP_PASSWORD")

		if from, exist := os.LookupEnv("SMTP_FROM"); !exist {
			return nil, fmt.Errorf("SMTP_FROM environment variable not set")
		} else {
			cfg.Mail.From = from
		}
	}

	return cfg, nil
}
