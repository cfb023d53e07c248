package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"cine-match/app/server/catalog"
	"cine-match/app/server/constants"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// cachedGenres 返回筛选器使用的类型列表，优先走缓存
func (a *App) cachedGenres(ctx context.Context) ([]string, error) {
	if a.rdb == nil {
		return catalog.DistinctGenres(a.db.WithContext(ctx))
	}

	// 检查是否有缓存结果
	if data, err := a.rdb.Get(ctx, constants.CacheKeyGenres).Result(); err == nil {
		var genres []string
		if err := json.Unmarshal([]byte(data), &genres); err == nil {
			return genres, nil
		}
		// 缓存内容损坏，当作未命中重建
		a.l.Warn("genres cache payload broken, rebuilding")
	} else if !errors.Is(err, redis.Nil) {
		a.l.Error("genres check cache", zap.Error(err))
	}

	// 产生结果
	genres, err := catalog.DistinctGenres(a.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	// 加入缓存
	if payload, err := json.Marshal(genres); err == nil {
		a.rdb.Set(ctx, constants.CacheKeyGenres, payload, constants.CacheExpireGenres)
	}

	return genres, nil
}

// dropGenresCache 目录发生写入后作废类型列表缓存
func (a *App) dropGenresCache(ctx context.Context) {
	if a.rdb == nil {
		return
	}
	if err := a.rdb.Del(ctx, constants.CacheKeyGenres).Err(); err != nil {
		a.l.Error("genres drop cache", zap.Error(err))
	}
}
