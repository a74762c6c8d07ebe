package repository

import (
	"context"
	"errors"

	"concierge-bot/internal/features/order/models"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrDuplicateTracking = errors.New("tracking code already used")
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	// FindByCode ищет заказ по коду; userID == nil снимает ограничение по владельцу.
	FindByCode(ctx context.Context, userID *int64, code string) (*models.Order, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Count(ctx context.Context, f models.Filter) (int64, error)
	// List возвращает заказы по убыванию id; limit <= 0 означает без ограничения.
	List(ctx context.Context, f models.Filter, offset, limit int) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, code, status string) (bool, error)
	CreateCustomRequest(ctx context.Context, req *models.CustomRequest) error
}
