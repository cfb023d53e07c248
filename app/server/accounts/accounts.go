package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cine-match/app/server/constants"
	"cine-match/app/server/models"

	"github.com/alexedwards/argon2id"
	"gorm.io/gorm"
)

// 注册 / 登录的用户可见失败原因，由路由层映射为状态码与提示文案
var (
	ErrFieldsRequired   = errors.New("all fields are required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", constants.MinPasswordLength)
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrEmailTaken       = errors.New("email is already registered")

	// 用户名不存在和密码错误共用同一个原因，不向外泄露账号是否存在
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register 校验注册信息并创建账号。
// 校验按固定顺序短路：必填 → 两次密码一致 → 长度 → 用户名占用 → 邮箱占用，
// 任何一步失败都不会产生写入。
func Register(ctx context.Context, db *gorm.DB, in *RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || email == "" || in.Password == "" {
		return nil, ErrFieldsRequired
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(in.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// 用户名是否被占用
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	// 邮箱是否被占用
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	// 生成密码哈希，库内绝不落明文
	passwordHash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login 按用户名查找账号并校验密码（argon2id 恒定时间比较）。
func Login(ctx context.Context, db *gorm.DB, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	// 提取密码哈希并校验
	match, _, err := argon2id.CheckHash(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !match {
		// 密码不一致，与未知用户名同样处理
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}
