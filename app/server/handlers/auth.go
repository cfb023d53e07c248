package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"cine-match/app/server/accounts"
	"cine-match/app/server/constants"
	"cine-match/app/server/jwt"
	"cine-match/app/server/models"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

type SessionResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}

// signSession 为账号签出会话令牌并写入 cookie
func (a *App) signSession(c echo.Context, user *models.User) (string, error) {
	expires := time.Now().Add(constants.AuthTokenDuration)
	token, err := a.jwt.SignToken(&jwt.User{
		ID:      user.ID,
		IsAdmin: user.IsAdmin,
		Expires: expires.Unix(),
	})
	if err != nil {
		return "", err
	}

	c.SetCookie(&http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return token, nil
}

func (a *App) AuthRegister(c echo.Context) error {
	// 已登录的访问者直接送回首页
	if _, err, _ := a.authUser(c, false); err == nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	// 校验并创建账号
	user, err := accounts.Register(rctx, a.db, &accounts.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrFieldsRequired):
			return a.erMsg(c, http.StatusBadRequest, "All fields are required!")
		case errors.Is(err, accounts.ErrPasswordMismatch):
			return a.erMsg(c, http.StatusBadRequest, "Passwords do not match!")
		case errors.Is(err, accounts.ErrPasswordTooShort):
			return a.erMsg(c, http.StatusBadRequest, "Password must be at least 6 characters.")
		case errors.Is(err, accounts.ErrUsernameTaken):
			return a.erMsg(c, http.StatusConflict, "Username is already taken! Please choose another one.")
		case errors.Is(err, accounts.ErrEmailTaken):
			return a.erMsg(c, http.StatusConflict, "Email is already registered! Please choose another one.")
		default:
			a.l.Error("failed to register user", zap.Error(err))
			return a.er(c, http.StatusInternalServerError)
		}
	}

	// 注册即登录
	token, err := a.signSession(c, user)
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusCreated, &SessionResponse{
		Message: fmt.Sprintf("Welcome to CineMatch, %s!", user.Username),
		Token:   token,
		User:    userInfo(user),
	})
}

func (a *App) AuthLogin(c echo.Context) error {
	// 已登录的访问者直接送回首页
	if _, err, _ := a.authUser(c, false); err == nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		a.l.Error("failed to bind request", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	user, err := accounts.Login(rctx, a.db, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			// 未知用户名与密码错误统一为同一种失败，不泄露账号是否存在
			return a.erMsg(c, http.StatusUnauthorized, "Invalid username or password")
		}
		a.l.Error("failed to login", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	// 签出会话
	token, err := a.signSession(c, user)
	if err != nil {
		a.l.Error("failed to sign token", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, &SessionResponse{
		Message: fmt.Sprintf("Welcome back, %s!", user.Username),
		Token:   token,
		User:    userInfo(user),
	})
}

func (a *App) AuthLogout(c echo.Context) error {
	// 清除会话 cookie
	c.SetCookie(&http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) Profile(c echo.Context) error {
	// 抓取 user 信息（认证）
	jwtUser, err, statusCode := a.authUser(c, false)
	if err != nil {
		return a.denyAuth(c, statusCode)
	}

	rctx := c.Request().Context()

	// 从数据库中获得当前账号
	var user models.User
	if err := a.db.WithContext(rctx).First(&user, "id = ?", jwtUser.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a.er(c, http.StatusNotFound)
		}
		a.l.Error("failed to get user", zap.Uint("id", jwtUser.ID), zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return c.JSON(http.StatusOK, userInfo(&user))
}

func userInfo(user *models.User) UserInfo {
	return UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	}
}
