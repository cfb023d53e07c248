package inits

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func Redis(conn string) (*redis.Client, error) {
	// 解析连接字符串
	opts, err := redis.ParseURL(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis connection string: %w", err)
	}

	// 建立连接并确认可用
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}
