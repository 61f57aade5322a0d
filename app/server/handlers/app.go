package handlers

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pharmacy-core/app/server/config"
	"pharmacy-core/app/server/jwt"
	"pharmacy-core/app/server/mailer"
)

type App struct {
	l    *zap.Logger    // 日志
	db   *gorm.DB       // 数据库
	rdb  *redis.Client  // Redis ，作为可选的读缓存
	jwt  *jwt.JWT       // JWT ，用于无状态验证
	mail mailer.Mailer  // 通知投递
	cfg  *config.Config // 启动后只读
}

func NewApp(l *zap.Logger, db *gorm.DB, rdb *redis.Client, j *jwt.JWT, mail mailer.Mailer, cfg *config.Config) *App {
	return &App{
		l:    l,
		db:   db,
		rdb:  rdb,
		jwt:  j,
		mail: mail,
		cfg:  cfg,
	}
}
