package models

import "time"

type User struct {
	// 不用 gorm.Model ：账号不提供删除，也不需要 DeletedAt
	ID        uint      `gorm:"column:id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at"`

	// 基础信息
	Username string `gorm:"column:username;uniqueIndex;not null"` // 用户名，全局唯一，大小写敏感
	Email    string `gorm:"column:email;uniqueIndex;not null"`    // 邮箱，全局唯一，保存前统一转小写
	IsAdmin  bool   `gorm:"column:is_admin"`                      // 是否为管理员：管理员可以写入（增删改、导入），非管理员只能浏览

	// 登录认证相关
	PasswordHash string `gorm:"column:password_hash;not null"` // 密码哈希，使用 argon2id 产生，绝不保存明文
}
