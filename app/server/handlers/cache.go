package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// 缓存层是可选的： redis 不可用（例如测试环境传入 nil ）时整体退化为直查数据库

func (a *App) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if a.rdb == nil {
		return false
	}

	data, err := a.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			a.l.Error("failed to query cache", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		a.l.Error("failed to unmarshal cache", zap.String("key", key), zap.ByteString("data", data), zap.Error(err))
		// 可能是无效的缓存，清理掉
		a.rdb.Del(ctx, key)
		return false
	}

	return true
}

func (a *App) cacheSet(ctx context.Context, key string, value interface{}, expire time.Duration) {
	if a.rdb == nil {
		return
	}

	if data, err := json.Marshal(value); err != nil {
		a.l.Error("failed to marshal cache", zap.String("key", key), zap.Error(err))
	} else {
		a.rdb.Set(ctx, key, data, expire)
	}
}

func (a *App) cacheDel(ctx context.Context, keys ...string) {
	if a.rdb == nil {
		return
	}

	a.rdb.Del(ctx, keys...)
}
