// Package bot connects the Telegram update stream to the request workflow and
// the admin moderation services.
package bot

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"concierge-bot/internal/bot/intent"
	"concierge-bot/internal/bot/view"
	apperrors "concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/logger"
	usermodels "concierge-bot/internal/features/user/models"
	"concierge-bot/internal/platform/telegram"
)

const updateTimeout = 30 * time.Second

// Renderer отправляет View в Telegram
type Renderer struct {
	api telegram.API
}

func NewRenderer(api telegram.API) *Renderer {
	return &Renderer{api: api}
}

// Send отправляет View новым сообщением
func (r *Renderer) Send(_ context.Context, chatID int64, v view.View) error {
	for _, msg := range messages(chatID, v) {
		if _, err := r.api.Send(msg); err != nil {
			return apperrors.NewTelegramAPIError("send message", err)
		}
	}
	return nil
}

// Edit заменяет сообщение с кнопками. Смена reply-клавиатуры возможна
// только новым сообщением.
func (r *Renderer) Edit(ctx context.Context, chatID int64, messageID int, v view.View) error {
	if v.Keyboard != view.KeyboardKeep || messageID == 0 {
		return r.Send(ctx, chatID, v)
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, v.Text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	if len(v.Rows) > 0 {
		markup := inlineMarkup(v.Rows)
		edit.ReplyMarkup = &markup
	}
	if _, err := r.api.Request(edit); err != nil {
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		logger.Debug().Err(err).Int64("chat_id", chatID).Msg("Edit failed, sending new message")
		return r.Send(ctx, chatID, v)
	}
	return nil
}

// Answer закрывает индикатор загрузки на кнопке
func (r *Renderer) Answer(callbackID, toast string) error {
	if _, err := r.api.Request(tgbotapi.NewCallback(callbackID, toast)); err != nil {
		return apperrors.NewTelegramAPIError("answer callback", err)
	}
	return nil
}

func messages(chatID int64, v view.View) []tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, v.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	switch v.Keyboard {
	case view.KeyboardRequestContact:
		kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButtonContact("📱 Share my phone number"),
		))
		kb.OneTimeKeyboard = true
		msg.ReplyMarkup = kb
	case view.KeyboardRemove:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	default:
		if len(v.Rows) > 0 {
			msg.ReplyMarkup = inlineMarkup(v.Rows)
		}
		return []tgbotapi.MessageConfig{msg}
	}

	if len(v.Rows) == 0 {
		return []tgbotapi.MessageConfig{msg}
	}
	// одно сообщение не может нести reply- и inline-клавиатуру сразу
	follow := tgbotapi.NewMessage(chatID, "👇")
	follow.ReplyMarkup = inlineMarkup(v.Rows)
	return []tgbotapi.MessageConfig{msg, follow}
}

func inlineMarkup(rows [][]view.Button) tgbotapi.InlineKeyboardMarkup {
	out := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL))
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, intent.Encode(b.Intent)))
		}
		out = append(out, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(out...)
}

// Bot читает обновления и обрабатывает каждое в отдельной горутине.
type Bot struct {
	renderer *Renderer
	handler  *Handler
	log      zerolog.Logger
	wg       sync.WaitGroup
}

func New(renderer *Renderer, handler *Handler) *Bot {
	return &Bot{renderer: renderer, handler: handler, log: logger.Component("bot")}
}

// Run обрабатывает обновления до отмены ctx или закрытия канала и ждёт
// завершения начатых обработчиков.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			b.log.Info().Msg("Update loop stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.handleUpdate(ctx, upd)
			}()
		}
	}
}

func (b *Bot) handleUpdate(parent context.Context, upd tgbotapi.Update) {
	// начатое обновление доводится до конца даже при остановке
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), updateTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			b.log.Error().
				Int("update_id", upd.UpdateID).
				Str("panic", fmt.Sprint(r)).
				Str("stack", string(debug.Stack())).
				Msg("Panic while handling update")
			b.recovered(ctx, upd)
		}
	}()

	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

// recovered снимает индикатор загрузки и сообщает пользователю об ошибке
func (b *Bot) recovered(ctx context.Context, upd tgbotapi.Update) {
	var chatID int64
	switch {
	case upd.CallbackQuery != nil:
		if err := b.renderer.Answer(upd.CallbackQuery.ID, ""); err != nil {
			b.log.Warn().Err(err).Msg("Failed to answer callback")
		}
		if upd.CallbackQuery.Message != nil && upd.CallbackQuery.Message.Chat != nil {
			chatID = upd.CallbackQuery.Message.Chat.ID
		}
	case upd.Message != nil && upd.Message.Chat != nil && upd.Message.Chat.IsPrivate():
		chatID = upd.Message.Chat.ID
	}
	if chatID == 0 {
		return
	}
	if err := b.renderer.Send(ctx, chatID, errorView()); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send error view")
	}
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	p := profile(q.From)
	in, err := intent.Decode(q.Data)
	if err != nil {
		b.log.Debug().Err(err).Str("data", q.Data).Msg("Unknown callback data")
		in = intent.MainMenu{}
	}
	b.log.Debug().Int64("telegram_id", p.TelegramID).Str("intent", fmt.Sprintf("%T", in)).Msg("Callback")

	v := b.handler.HandleIntent(ctx, p, in)

	toast := ""
	if v != nil {
		toast = v.Toast
	}
	if err := b.renderer.Answer(q.ID, toast); err != nil {
		b.log.Warn().Err(err).Msg("Failed to answer callback")
	}
	if v == nil || q.Message == nil {
		return
	}
	if err := b.renderer.Edit(ctx, q.Message.Chat.ID, q.Message.MessageID, *v); err != nil {
		b.log.Error().Err(err).Int64("telegram_id", p.TelegramID).Msg("Failed to render view")
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	if m.From == nil || m.Chat == nil || !m.Chat.IsPrivate() {
		return
	}
	p := profile(m.From)
	msg := Message{
		Command: m.Command(),
		Caption: m.Caption,
		Media:   len(m.Photo) > 0 || m.Video != nil || m.Voice != nil || m.Audio != nil || m.Document != nil,
	}
	if msg.Command == "" {
		msg.Text = m.Text
	}
	if m.Contact != nil {
		msg.ContactPhone = m.Contact.PhoneNumber
		msg.ContactUserID = m.Contact.UserID
	}

	v := b.handler.HandleMessage(ctx, p, msg)
	if err := b.renderer.Send(ctx, m.Chat.ID, v); err != nil {
		b.log.Error().Err(err).Int64("telegram_id", p.TelegramID).Msg("Failed to render view")
	}
}

func profile(u *tgbotapi.User) usermodels.Profile {
	return usermodels.Profile{
		TelegramID: u.ID,
		Username:   u.UserName,
		FullName:   strings.TrimSpace(u.FirstName + " " + u.LastName),
	}
}
