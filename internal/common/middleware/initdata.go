package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"

	"concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/logger"
)

const telegramUserKey = "user"

// TelegramInitData проверяет подпись init data Mini App. Данные принимаются
// из заголовка init_data или из "Authorization: tma <init data>".
// ttl 0 отключает проверку срока.
func TelegramInitData(token string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("init_data")
		if raw == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "tma ") {
				raw = strings.TrimPrefix(auth, "tma ")
			}
		}
		if raw == "" {
			RespondError(c, errors.NewUnauthorizedError("Telegram init data required"))
			return
		}

		if err := initdata.Validate(raw, token, ttl); err != nil {
			logger.Debug().Err(err).Msg("Init data validation failed")
			RespondError(c, errors.Wrap(err, errors.ErrCodeUnauthorized, "Invalid init data"))
			return
		}

		parsed, err := initdata.Parse(raw)
		if err != nil {
			RespondError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "Failed to parse init data"))
			return
		}
		if parsed.User.ID == 0 {
			RespondError(c, errors.NewUnauthorizedError("init data has no user"))
			return
		}

		c.Set(telegramUserKey, parsed.User)
		c.Next()
	}
}

// TelegramUser возвращает пользователя из проверенной init data
func TelegramUser(c *gin.Context) (initdata.User, bool) {
	v, ok := c.Get(telegramUserKey)
	if !ok {
		return initdata.User{}, false
	}
	u, ok := v.(initdata.User)
	return u, ok
}
