package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"concierge-bot/internal/bot/intent"
	"concierge-bot/internal/bot/view"
	apperrors "concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/logger"
	ordermodels "concierge-bot/internal/features/order/models"
	usermodels "concierge-bot/internal/features/user/models"
)

// Sender доставляет сообщение в чат Telegram
type Sender interface {
	Send(ctx context.Context, chatID int64, v view.View) error
}

type AdminDirectory interface {
	ListAdmins(ctx context.Context) ([]*usermodels.User, error)
}

// Delivery результат одной попытки отправки
type Delivery struct {
	AdminID    int64
	TelegramID int64
	Err        error
}

func (d Delivery) OK() bool { return d.Err == nil }

type Service struct {
	admins AdminDirectory
	sender Sender
	now    func() time.Time
}

func NewService(admins AdminDirectory, sender Sender) *Service {
	return &Service{admins: admins, sender: sender, now: time.Now}
}

// NotifyOrderCreated отправляет сводку заказа каждому администратору.
// Ошибка одного получателя не прерывает рассылку и не возвращается вызывающему.
func (s *Service) NotifyOrderCreated(ctx context.Context, order *ordermodels.Order, customer *usermodels.User) []Delivery {
	if s == nil || order == nil {
		return nil
	}

	admins, err := s.admins.ListAdmins(ctx)
	if err != nil {
		logger.Error().Err(err).Str("tracking_code", order.TrackingCode).Msg("Failed to load admins for notification")
		return nil
	}

	msg := s.orderCreatedView(order, customer)
	results := make([]Delivery, 0, len(admins))
	for _, admin := range admins {
		d := Delivery{AdminID: admin.ID, TelegramID: admin.TelegramID}
		if err := s.sender.Send(ctx, admin.TelegramID, msg); err != nil {
			d.Err = apperrors.NewDeliveryError(admin.TelegramID, err)
			logger.Warn().
				Err(err).
				Int64("admin_telegram_id", admin.TelegramID).
				Str("tracking_code", order.TrackingCode).
				Msg("Order notification not delivered")
		}
		results = append(results, d)
	}
	return results
}

func (s *Service) orderCreatedView(order *ordermodels.Order, customer *usermodels.User) view.View {
	created := order.CreatedAt
	if created.IsZero() {
		created = s.now()
	}

	var b strings.Builder
	b.WriteString("🆕 <b>New order</b>\n\n")
	fmt.Fprintf(&b, "Customer: %s\n", html.EscapeString(customer.DisplayName("unknown user")))
	if order.ContactPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", html.EscapeString(order.ContactPhone))
	}
	fmt.Fprintf(&b, "Time: %s\n", created.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Category: %s\n", html.EscapeString(order.CategoryLabel))
	fmt.Fprintf(&b, "Service: %s\n", html.EscapeString(order.ItemLabel))
	fmt.Fprintf(&b, "Tracking code: <code>%s</code>", order.TrackingCode)

	return view.View{Text: b.String()}.Append(
		view.Row(view.Action("Change status", intent.StatusMenu{Code: order.TrackingCode})),
	)
}
