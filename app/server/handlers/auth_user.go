package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"cine-match/app/server/constants"
	"cine-match/app/server/jwt"

	"github.com/labstack/echo/v4"
)

// getToken 提取会话令牌：优先 Authorization 头，其次会话 cookie
func (a *App) getToken(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get("Authorization"); authHeader != "" {
		splits := strings.Split(authHeader, " ")
		if len(splits) != 2 {
			return "", fmt.Errorf("invalid auth header: %s", authHeader)
		}
		if !strings.EqualFold(splits[0], "bearer") {
			return "", fmt.Errorf("unknown auth method: %s", splits[0])
		}
		return splits[1], nil
	}

	if cookie, err := c.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", fmt.Errorf("missing auth token")
}

// authUser 解析当前请求的认证身份。
// 未登录与权限不足使用不同的提示，但拒绝效果一致（对应操作一律不执行）。
func (a *App) authUser(c echo.Context, requireAdminRole bool) (*jwt.User, error, int) {
	// 提取 token
	token, err := a.getToken(c)
	if err != nil {
		return nil, err, http.StatusUnauthorized
	}

	// 验证 token
	jwtUser, err := a.jwt.ParseUser(token)
	if err != nil {
		// 无效的 token
		return nil, fmt.Errorf("failed to parse token: %w", err), http.StatusUnauthorized
	}

	// 验证权限
	if requireAdminRole && !jwtUser.IsAdmin {
		return nil, fmt.Errorf("requires admin role"), http.StatusForbidden
	}

	return jwtUser, nil, http.StatusOK
}

// denyAuth 按拒绝原因返回对应的提示
func (a *App) denyAuth(c echo.Context, statusCode int) error {
	if statusCode == http.StatusForbidden {
		return a.erMsg(c, statusCode, "Admin access required.")
	}
	return a.erMsg(c, http.StatusUnauthorized, "Please log in to access this page.")
}
