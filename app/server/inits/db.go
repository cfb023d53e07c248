package inits

import (
	"fmt"

	"cine-match/app/server/models"
	"cine-match/app/server/utils"

	"github.com/alexedwards/argon2id"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func DB(conn string) (db *gorm.DB, err error) {
	// 打开连接
	if db, err = gorm.Open(postgres.Open(conn), &gorm.Config{}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 迁移
	if err = mig(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 初始化启动数据
	if err = initData(db); err != nil {
		return nil, fmt.Errorf("failed to init data into database: %w", err)
	}

	// 返回
	return db, nil
}

func mig(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Movie{},
	)
}

func initData(db *gorm.DB) (err error) {
	// 查询现有记录数量
	var counter int64

	// 初始化用户
	if err = db.Model(&models.User{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get user count: %w", err)
	} else if counter == 0 { // 没有任何用户，添加初始管理员
		// 创建密码
		var passwordHash string
		if passwordHash, err = argon2id.CreateHash("changeme123", argon2id.DefaultParams); err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}

		// 插入记录
		if err = db.Create(&models.User{
			Username:     "admin",
			Email:        "admin@cinematch.local",
			IsAdmin:      true,
			PasswordHash: passwordHash,
		}).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
	}

	// 初始化示例影片
	if err = db.Model(&models.Movie{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get movie count: %w", err)
	} else if counter == 0 { // 目录为空，添加示例数据
		// 插入记录
		if err = db.Create([]*models.Movie{
			{
				Title:       "Inception",
				Year:        utils.P(2010),
				Genre:       "Sci-Fi",
				Director:    "Christopher Nolan",
				Rating:      utils.P(8.8),
				Description: "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea.",
				PosterURL:   "https://placehold.co/300x450/667eea/ffffff?text=Inception",
			},
			{
				Title:       "The Matrix",
				Year:        utils.P(1999),
				Genre:       "Sci-Fi",
				Director:    "Wachowski Sisters",
				Rating:      utils.P(8.7),
				Description: "A computer hacker learns from mysterious rebels about the true nature of his reality and his role in the war against its controllers.",
				PosterURL:   "https://placehold.co/300x450/764ba2/ffffff?text=The+Matrix",
			},
			{
				Title:       "Interstellar",
				Year:        utils.P(2014),
				Genre:       "Sci-Fi",
				Director:    "Christopher Nolan",
				Rating:      utils.P(8.6),
				Description: "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
				PosterURL:   "https://placehold.co/300x450/f093fb/ffffff?text=Interstellar",
			},
			{
				Title:       "The Shawshank Redemption",
				Year:        utils.P(1994),
				Genre:       "Drama",
				Director:    "Frank Darabont",
				Rating:      utils.P(9.3),
				Description: "Two imprisoned men bond over a number of years, finding solace and eventual redemption through acts of common decency.",
				PosterURL:   "https://placehold.co/300x450/4CAF50/ffffff?text=Shawshank",
			},
			{
				Title:       "The Dark Knight",
				Year:        utils.P(2008),
				Genre:       "Action",
				Director:    "Christopher Nolan",
				Rating:      utils.P(9.0),
				Description: "When the menace known as the Joker wreaks havoc and chaos on the people of Gotham, Batman must accept one of the greatest tests.",
				PosterURL:   "https://placehold.co/300x450/4facfe/ffffff?text=Dark+Knight",
			},
		}).Error; err != nil {
			return fmt.Errorf("failed to create initial movies: %w", err)
		}
	}

	// 已有数据或全部导入成功
	return nil
}
