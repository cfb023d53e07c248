package constants

import "time"

const (
	CacheKeyGenres = "cinematch:genres" // 筛选器下拉框使用的类型列表
)

const (
	CacheExpireGenres = 10 * time.Minute
)
