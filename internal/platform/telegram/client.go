package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"concierge-bot/internal/common/cache"
	apperrors "concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/logger"
)

// RPSError превышение лимита запросов к Telegram API
type RPSError struct {
	RetryAfter int
}

func (e *RPSError) Error() string {
	return fmt.Sprintf("too many requests, retry after %ds", e.RetryAfter)
}

// API часть tgbotapi.BotAPI, которой пользуется бот
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

type Client struct {
	bot *tgbotapi.BotAPI
	log zerolog.Logger
}

func NewClient(token string, debug bool) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, apperrors.NewTelegramAPIError("authorize", err)
	}
	bot.Debug = debug

	c := &Client{bot: bot, log: logger.Component("telegram")}
	c.log.Info().Str("username", bot.Self.UserName).Msg("Authorized on account")
	return c, nil
}

func (c *Client) API() API {
	return c.bot
}

func (c *Client) Username() string {
	return c.bot.Self.UserName
}

// Updates запускает long polling
func (c *Client) Updates(timeout int) tgbotapi.UpdatesChannel {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = timeout
	return c.bot.GetUpdatesChan(cfg)
}

func (c *Client) StopUpdates() {
	c.bot.StopReceivingUpdates()
}

// Membership проверяет подписку пользователя на обязательный канал.
// Положительный ответ кэшируется, чтобы не упираться в лимиты getChatMember.
type Membership struct {
	api     API
	channel string
	cache   *cache.CacheService
	ttl     time.Duration
}

func NewMembership(api API, channel string, c *cache.CacheService, ttl time.Duration) *Membership {
	return &Membership{api: api, channel: channel, cache: c, ttl: ttl}
}

// JoinURL ссылка на канал для кнопки подписки. У канала, заданного
// числовым ID, публичной ссылки нет, тогда возвращается пустая строка.
func (m *Membership) JoinURL() string {
	if _, err := strconv.ParseInt(m.channel, 10, 64); err == nil {
		return ""
	}
	return "https://t.me/" + strings.TrimPrefix(m.channel, "@")
}

func (m *Membership) IsMember(ctx context.Context, telegramID int64) (bool, error) {
	key := "member:" + strings.TrimPrefix(m.channel, "@") + ":" + strconv.FormatInt(telegramID, 10)
	if m.cache != nil {
		var cached bool
		if err := m.cache.Get(ctx, key, &cached); err == nil && cached {
			return true, nil
		}
	}

	member, err := m.check(telegramID)
	if err != nil {
		return false, err
	}
	if member && m.cache != nil {
		if err := m.cache.Set(ctx, key, true, m.ttl); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache membership")
		}
	}
	return member, nil
}

func (m *Membership) check(telegramID int64) (bool, error) {
	cfg := tgbotapi.GetChatMemberConfig{ChatConfigWithUser: tgbotapi.ChatConfigWithUser{UserID: telegramID}}
	if id, err := strconv.ParseInt(m.channel, 10, 64); err == nil {
		cfg.ChatID = id
	} else {
		cfg.SuperGroupUsername = "@" + strings.TrimPrefix(m.channel, "@")
	}

	cm, err := m.api.GetChatMember(cfg)
	if err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 429 {
			return false, &RPSError{RetryAfter: apiErr.RetryAfter}
		}
		return false, apperrors.NewTelegramAPIError("get chat member", err)
	}
	return isMemberStatus(cm), nil
}

func isMemberStatus(cm tgbotapi.ChatMember) bool {
	switch cm.Status {
	case "creator", "administrator", "member":
		return true
	case "restricted":
		return cm.IsMember
	}
	return false
}
