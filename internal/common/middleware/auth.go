package middleware

import (
	"github.com/gin-gonic/gin"

	"concierge-bot/internal/common/errors"
)

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			RespondError(c, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}
		c.Next()
	}
}

// RequireAdmin пропускает только пользователей с ролью admin в базе
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			RespondError(c, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}
		if !user.IsAdmin() {
			RespondError(c, errors.NewForbiddenError("admin role required"))
			return
		}
		c.Next()
	}
}
