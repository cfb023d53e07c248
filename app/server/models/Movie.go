package models

import "time"

type Movie struct {
	// 不用 gorm.Model ：目录条目是硬删除的，不需要 DeletedAt
	ID        uint      `gorm:"column:id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`

	// 影片基础信息
	Title    string `gorm:"column:title;not null"` // 标题，必填，非空
	Year     *int   `gorm:"column:year"`           // 上映年份， NULL 表示未知
	Genre    string `gorm:"column:genre"`          // 类型（精确匹配筛选用）
	Director string `gorm:"column:director"`       // 导演

	// 展示相关
	Rating      *float64 `gorm:"column:rating"`                // 评分 0.0 - 10.0 ， NULL 表示未评分
	Description string   `gorm:"column:description;type:text"` // 简介
	PosterURL   string   `gorm:"column:poster_url"`            // 海报地址，缺省时由标题生成占位图
}
