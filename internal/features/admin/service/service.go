package service

import (
	"context"

	apperrors "concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/logger"
	"concierge-bot/internal/common/pagination"
	catalogsvc "concierge-bot/internal/features/catalog/service"
	ordermodels "concierge-bot/internal/features/order/models"
	ordersvc "concierge-bot/internal/features/order/service"
	usermodels "concierge-bot/internal/features/user/models"
	usersvc "concierge-bot/internal/features/user/service"
)

// CustomItemID в разбивке по услугам обозначает заказы вне каталога.
const CustomItemID uint = 0

var ErrForbidden = apperrors.NewForbiddenError("admin role required")

// GroupItem услуга группы с числом заказов в ней
type GroupItem struct {
	ItemID uint   `json:"item_id"`
	Title  string `json:"title"`
	Count  int64  `json:"count"`
}

// OrdersPage страница заказов группы, при необходимости по одной услуге
type OrdersPage struct {
	Group     ordermodels.Group                         `json:"group"`
	ItemTitle string                                    `json:"item_title,omitempty"`
	Page      pagination.Page[ordermodels.OrderSummary] `json:"page"`
}

type OrderDetail struct {
	Order    *ordermodels.Order
	Customer *usermodels.User
}

type Service struct {
	users    usersvc.UserService
	catalog  catalogsvc.CatalogService
	ledger   ordersvc.Ledger
	pageSize int
}

func NewService(users usersvc.UserService, catalog catalogsvc.CatalogService, ledger ordersvc.Ledger) *Service {
	return &Service{users: users, catalog: catalog, ledger: ledger, pageSize: pagination.DefaultPageSize}
}

func authorize(actor *usermodels.User) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func groupStatuses(group ordermodels.Group) ([]string, error) {
	statuses, ok := ordermodels.AdminGroupStatuses(group)
	if !ok {
		return nil, apperrors.NewValidationError("group", "unknown group").WithDetail("group", string(group))
	}
	return statuses, nil
}

// StatusOptions целевые статусы меню модерации
func (s *Service) StatusOptions() []string {
	return ordermodels.ModerationStatuses
}

// GroupItems перечисляет услуги каталога и заказы вне каталога с числом
// заказов группы в каждой.
func (s *Service) GroupItems(ctx context.Context, actor *usermodels.User, group ordermodels.Group) ([]GroupItem, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	statuses, err := groupStatuses(group)
	if err != nil {
		return nil, err
	}
	items, err := s.catalog.ListAllItems(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]GroupItem, 0, len(items)+1)
	// заказ хранит только название услуги, одинаковые названия из разных
	// категорий считаются одной строкой
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it.Title] {
			continue
		}
		seen[it.Title] = true
		n, err := s.ledger.CountByStatusesAndItem(ctx, statuses, it.Title)
		if err != nil {
			return nil, err
		}
		out = append(out, GroupItem{ItemID: it.ID, Title: it.Title, Count: n})
	}
	n, err := s.ledger.CountByStatusesAndItem(ctx, statuses, ordermodels.CustomItemLabel)
	if err != nil {
		return nil, err
	}
	out = append(out, GroupItem{ItemID: CustomItemID, Title: ordermodels.CustomItemLabel, Count: n})
	return out, nil
}

// OrdersPage возвращает страницу заказов группы по одной услуге.
func (s *Service) OrdersPage(ctx context.Context, actor *usermodels.User, group ordermodels.Group, itemID uint, page int) (*OrdersPage, error) {
	return s.ListOrdersGlobal(ctx, actor, group, &itemID, page)
}

// ListOrdersGlobal листает заказы группы; itemID == nil снимает фильтр по услуге.
func (s *Service) ListOrdersGlobal(ctx context.Context, actor *usermodels.User, group ordermodels.Group, itemID *uint, page int) (*OrdersPage, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	statuses, err := groupStatuses(group)
	if err != nil {
		return nil, err
	}

	itemLabel := ""
	if itemID != nil {
		itemLabel, err = s.itemLabel(ctx, *itemID)
		if err != nil {
			return nil, err
		}
	}

	if page < 0 {
		page = 0
	}
	total, err := s.ledger.CountByStatusesAndItem(ctx, statuses, itemLabel)
	if err != nil {
		return nil, err
	}
	orders, err := s.ledger.ListByStatusesAndItemPaged(ctx, statuses, itemLabel, pagination.Offset(page, s.pageSize), s.pageSize)
	if err != nil {
		return nil, err
	}
	summaries, err := s.summarize(ctx, orders)
	if err != nil {
		return nil, err
	}
	return &OrdersPage{
		Group:     group,
		ItemTitle: itemLabel,
		Page:      pagination.New(summaries, page, s.pageSize, total),
	}, nil
}

func (s *Service) OrderDetail(ctx context.Context, actor *usermodels.User, code string) (*OrderDetail, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	order, err := s.ledger.FindByCodeGlobal(ctx, code)
	if err != nil {
		return nil, err
	}
	customer, err := s.users.GetByID(ctx, order.UserID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	return &OrderDetail{Order: order, Customer: customer}, nil
}

// SetOrderStatus возвращает false, если заказа с таким кодом нет.
func (s *Service) SetOrderStatus(ctx context.Context, actor *usermodels.User, code, status string) (bool, error) {
	if err := authorize(actor); err != nil {
		return false, err
	}
	ok, err := s.ledger.SetStatus(ctx, code, status)
	if err != nil {
		return false, err
	}
	if ok {
		logger.Info().
			Int64("admin_id", actor.ID).
			Str("tracking_code", code).
			Str("status", status).
			Msg("Admin changed order status")
	}
	return ok, nil
}

func (s *Service) UsersPage(ctx context.Context, actor *usermodels.User, page int) (*pagination.Page[usermodels.UserSummary], error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	if page < 0 {
		page = 0
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx, pagination.Offset(page, s.pageSize), s.pageSize)
	if err != nil {
		return nil, err
	}
	summaries := make([]usermodels.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}
	p := pagination.New(summaries, page, s.pageSize, total)
	return &p, nil
}

func (s *Service) UserDetail(ctx context.Context, actor *usermodels.User, userID int64) (*usermodels.User, error) {
	if err := authorize(actor); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// SetUserRole меняет роль любого пользователя, в том числе самого администратора.
func (s *Service) SetUserRole(ctx context.Context, actor *usermodels.User, userID int64, role string) (bool, error) {
	if err := authorize(actor); err != nil {
		return false, err
	}
	ok, err := s.users.SetRole(ctx, userID, role)
	if err != nil {
		return false, err
	}
	if ok {
		logger.Info().
			Int64("admin_id", actor.ID).
			Int64("user_id", userID).
			Str("role", role).
			Msg("Admin changed user role")
		if userID == actor.ID {
			actor.Role = role
		}
	}
	return ok, nil
}

func (s *Service) itemLabel(ctx context.Context, itemID uint) (string, error) {
	if itemID == CustomItemID {
		return ordermodels.CustomItemLabel, nil
	}
	item, err := s.catalog.GetItem(ctx, itemID)
	if err != nil {
		return "", err
	}
	return item.Title, nil
}

func (s *Service) summarize(ctx context.Context, orders []*ordermodels.Order) ([]ordermodels.OrderSummary, error) {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.UserID)
	}
	owners, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ordermodels.OrderSummary, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.Summary(owners[o.UserID].DisplayName(o.TrackingCode)))
	}
	return out, nil
}
