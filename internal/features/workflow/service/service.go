package service

import (
	"context"
	"errors"
	"strings"

	"concierge-bot/internal/bot/session"
	apperrors "concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/logger"
	"concierge-bot/internal/common/validation"
	catalogmodels "concierge-bot/internal/features/catalog/models"
	catalogsvc "concierge-bot/internal/features/catalog/service"
	notificationsvc "concierge-bot/internal/features/notification/service"
	ordermodels "concierge-bot/internal/features/order/models"
	ordersvc "concierge-bot/internal/features/order/service"
	usermodels "concierge-bot/internal/features/user/models"
	usersvc "concierge-bot/internal/features/user/service"
)

// UnknownOption подставляется вместо услуги, если номер вне списка.
const UnknownOption = "unknown option"

var (
	ErrMembershipRequired = apperrors.New(apperrors.ErrCodeMembershipRequired, "channel membership required")
	ErrNotAwaitingInput   = apperrors.New(apperrors.ErrCodeBadRequest, "no input expected in the current state")
)

type Notifier interface {
	NotifyOrderCreated(ctx context.Context, order *ordermodels.Order, customer *usermodels.User) []notificationsvc.Delivery
}

// MembershipChecker проверяет подписку пользователя на обязательный канал.
type MembershipChecker interface {
	IsMember(ctx context.Context, telegramID int64) (bool, error)
}

// CategoryView категория вместе с её услугами
type CategoryView struct {
	Category *catalogmodels.Category
	Items    []catalogmodels.Item
}

// Selection выбранная услуга. Item равен nil, если номер вне диапазона.
type Selection struct {
	Category *catalogmodels.Category
	Index    int
	Item     *catalogmodels.Item
}

func (s *Selection) ItemLabel() string {
	if s.Item == nil {
		return UnknownOption
	}
	return s.Item.Title
}

// Confirmation результат оформления заказа
type Confirmation struct {
	Order       *ordermodels.Order
	User        *usermodels.User
	NeedContact bool
	Deliveries  []notificationsvc.Delivery
}

type Service struct {
	users      usersvc.UserService
	catalog    catalogsvc.CatalogService
	ledger     ordersvc.Ledger
	notifier   Notifier
	membership MembershipChecker
}

type Option func(*Service)

// WithMembershipGate включает проверку подписки перед созданием заказа.
func WithMembershipGate(m MembershipChecker) Option {
	return func(s *Service) { s.membership = m }
}

func NewService(users usersvc.UserService, catalog catalogsvc.CatalogService, ledger ordersvc.Ledger, notifier Notifier, opts ...Option) *Service {
	s := &Service{users: users, catalog: catalog, ledger: ledger, notifier: notifier}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) BrowseCategories(ctx context.Context, sess *session.Session) ([]catalogmodels.Category, error) {
	sess.Reset()
	return s.catalog.ListCategories(ctx)
}

// SelectCategory показывает услуги категории. Пустая категория не ошибка;
// отсутствующая возвращает пользователя к списку категорий.
func (s *Service) SelectCategory(ctx context.Context, sess *session.Session, categoryID uint) (*CategoryView, error) {
	category, items, err := s.loadCategory(ctx, sess, categoryID)
	if err != nil {
		return nil, err
	}
	sess.State = session.StateBrowsingItems
	sess.CategoryID = category.ID
	sess.ItemIndex = 0
	return &CategoryView{Category: category, Items: items}, nil
}

// SelectItem выбирает услугу по номеру, начиная с 1.
func (s *Service) SelectItem(ctx context.Context, sess *session.Session, categoryID uint, index int) (*Selection, error) {
	category, items, err := s.loadCategory(ctx, sess, categoryID)
	if err != nil {
		return nil, err
	}
	sel := &Selection{Category: category, Index: index}
	if index >= 1 && index <= len(items) {
		sel.Item = &items[index-1]
	}
	sess.State = session.StateReviewingSelection
	sess.CategoryID = category.ID
	sess.ItemIndex = index
	return sel, nil
}

// Confirm оформляет заказ на выбранную услугу: пользователь, код, заказ,
// уведомление администраторов и, если телефона нет, запрос контакта.
func (s *Service) Confirm(ctx context.Context, sess *session.Session, profile usermodels.Profile, categoryID uint, index int) (*Confirmation, error) {
	sel, err := s.SelectItem(ctx, sess, categoryID, index)
	if err != nil {
		return nil, err
	}
	return s.placeOrder(ctx, sess, profile, sel.Category.Title, sel.ItemLabel(), nil)
}

// SubmitContact сохраняет телефон. При неверном формате состояние не меняется.
func (s *Service) SubmitContact(ctx context.Context, sess *session.Session, profile usermodels.Profile, raw string) (*usermodels.User, error) {
	phone, err := validation.ValidatePhone(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidPhone, "invalid phone number")
	}
	user, err := s.users.Resolve(ctx, profile, false)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetPhone(ctx, user, phone); err != nil {
		return nil, err
	}
	sess.State = session.StateConfirmed
	logger.Info().Int64("telegram_id", profile.TelegramID).Msg("Contact phone saved")
	return user, nil
}

func (s *Service) StartCustomRequest(sess *session.Session) {
	sess.Reset()
	sess.State = session.StateAwaitingCustomRequest
}

// SubmitCustomRequest сохраняет свободную заявку. content равен nil, если
// пользователь прислал медиа без подписи.
func (s *Service) SubmitCustomRequest(ctx context.Context, sess *session.Session, profile usermodels.Profile, content *string) (*Confirmation, error) {
	if sess.State != session.StateAwaitingCustomRequest {
		return nil, ErrNotAwaitingInput
	}
	if content != nil {
		trimmed := strings.TrimSpace(*content)
		if err := validation.ValidateContent(trimmed); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid request text")
		}
		content = &trimmed
	}
	return s.placeOrder(ctx, sess, profile, ordermodels.CustomCategoryLabel, ordermodels.CustomItemLabel, content)
}

// Reorder повторяет завершённый заказ пользователя с теми же метками.
func (s *Service) Reorder(ctx context.Context, sess *session.Session, profile usermodels.Profile, code string) (*Confirmation, error) {
	prev, err := s.LookupOrder(ctx, profile.TelegramID, code)
	if err != nil {
		return nil, err
	}
	return s.placeOrder(ctx, sess, profile, prev.CategoryLabel, prev.ItemLabel, nil)
}

// SubmitRequest оформляет заказ без диалога.
func (s *Service) SubmitRequest(ctx context.Context, profile usermodels.Profile, categoryID uint, itemIndex int) (*ordermodels.Receipt, error) {
	c, err := s.Confirm(ctx, session.New(profile.TelegramID), profile, categoryID, itemIndex)
	if err != nil {
		return nil, err
	}
	return &ordermodels.Receipt{TrackingCode: c.Order.TrackingCode, NeedContact: c.NeedContact}, nil
}

// LookupOrder ищет заказ только среди заказов самого пользователя.
func (s *Service) LookupOrder(ctx context.Context, telegramID int64, code string) (*ordermodels.Order, error) {
	code = strings.TrimSpace(code)
	if err := validation.ValidateTrackingCode(code); err != nil {
		return nil, ordersvc.ErrOrderNotFound
	}
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, usersvc.ErrUserNotFound) {
			return nil, ordersvc.ErrOrderNotFound
		}
		return nil, err
	}
	return s.ledger.FindByCode(ctx, user.ID, code)
}

func (s *Service) ListOrders(ctx context.Context, telegramID int64, group ordermodels.Group) ([]*ordermodels.Order, error) {
	statuses, ok := ordermodels.UserGroupStatuses(group)
	if !ok {
		return nil, apperrors.NewValidationError("group", "unknown group").WithDetail("group", string(group))
	}
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, usersvc.ErrUserNotFound) {
			return []*ordermodels.Order{}, nil
		}
		return nil, err
	}
	return s.ledger.ListByStatuses(ctx, user.ID, statuses)
}

func (s *Service) loadCategory(ctx context.Context, sess *session.Session, categoryID uint) (*catalogmodels.Category, []catalogmodels.Item, error) {
	category, err := s.catalog.GetCategory(ctx, categoryID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			sess.Reset()
		}
		return nil, nil, err
	}
	items, err := s.catalog.ListItems(ctx, category.ID)
	if err != nil {
		return nil, nil, err
	}
	return category, items, nil
}

func (s *Service) placeOrder(ctx context.Context, sess *session.Session, profile usermodels.Profile, categoryLabel, itemLabel string, content *string) (*Confirmation, error) {
	if s.membership != nil {
		member, err := s.membership.IsMember(ctx, profile.TelegramID)
		if err != nil {
			// при ошибке Telegram API проверка пропускается
			logger.Warn().Err(err).Int64("telegram_id", profile.TelegramID).Msg("Membership check failed, skipping")
			member = true
		}
		if !member {
			return nil, ErrMembershipRequired
		}
	}

	user, err := s.users.Resolve(ctx, profile, true)
	if err != nil {
		return nil, err
	}

	order := &ordermodels.Order{
		UserID:          user.ID,
		Status:          ordermodels.StatusPending,
		CategoryLabel:   categoryLabel,
		ItemLabel:       itemLabel,
		ContactPhone:    user.Phone,
		ContactName:     user.FullName,
		ContactUsername: user.Username,
	}
	if err := s.ledger.Create(ctx, order); err != nil {
		return nil, err
	}
	if categoryLabel == ordermodels.CustomCategoryLabel {
		req := &ordermodels.CustomRequest{UserID: user.ID, Content: content, TrackingCode: order.TrackingCode}
		if err := s.ledger.CreateCustomRequest(ctx, req); err != nil {
			// заказ уже сохранён: администраторы должны узнать о нём и без текста заявки
			logger.Error().Err(err).Str("tracking_code", order.TrackingCode).Msg("Failed to store custom request content")
		}
	}

	logger.Info().
		Int64("user_id", user.ID).
		Str("tracking_code", order.TrackingCode).
		Str("item", itemLabel).
		Msg("Order created")

	c := &Confirmation{Order: order, User: user}
	if s.notifier != nil {
		c.Deliveries = s.notifier.NotifyOrderCreated(ctx, order, user)
	}

	sess.TrackingCode = order.TrackingCode
	if user.Phone == "" {
		sess.State = session.StateAwaitingContact
		c.NeedContact = true
	} else {
		sess.State = session.StateConfirmed
	}
	return c, nil
}
