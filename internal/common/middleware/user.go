package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"concierge-bot/internal/common/errors"
	usermodels "concierge-bot/internal/features/user/models"
	"concierge-bot/internal/features/user/service"
)

const currentUserKey = "current_user"

// ResolveUser находит или создаёт пользователя по init data и кладёт его в контекст
func ResolveUser(users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tgUser, ok := TelegramUser(c)
		if !ok {
			RespondError(c, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}

		user, err := users.Resolve(c.Request.Context(), usermodels.Profile{
			TelegramID: tgUser.ID,
			Username:   tgUser.Username,
			FullName:   strings.TrimSpace(tgUser.FirstName + " " + tgUser.LastName),
		}, false)
		if err != nil {
			RespondError(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// SetCurrentUser кладёт пользователя в контекст запроса
func SetCurrentUser(c *gin.Context, user *usermodels.User) {
	c.Set(currentUserKey, user)
}

func CurrentUser(c *gin.Context) *usermodels.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*usermodels.User)
	return u
}
