package handlers

import (
	"cine-match/app/server/jwt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	l   *zap.Logger   // 日志
	db  *gorm.DB      // 数据库
	rdb *redis.Client // Redis ，用于类型列表缓存，可为 nil（此时每次都查库）
	jwt *jwt.JWT      // JWT ，用于无状态会话
}

func NewApp(l *zap.Logger, db *gorm.DB, rdb *redis.Client, j *jwt.JWT) *App {
	return &App{
		l:   l,
		db:  db,
		rdb: rdb,
		jwt: j,
	}
}
