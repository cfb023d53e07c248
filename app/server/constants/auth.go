package constants

import "time"

const (
	AuthTokenDuration = 7 * 24 * time.Hour // 会话令牌有效期
	SessionCookieName = "cinematch_session"

	MinPasswordLength = 6
)
