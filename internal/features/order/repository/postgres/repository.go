package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"concierge-bot/internal/features/order/models"
	"concierge-bot/internal/features/order/repository"
)

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) repository.OrderRepository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Omit("User").Create(order).Error
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateTracking
		}
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByCode(ctx context.Context, userID *int64, code string) (*models.Order, error) {
	q := r.db.WithContext(ctx).Where("tracking_code = ?", code)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var order models.Order
	if err := q.Order("id DESC").First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

func (r *gormRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("tracking_code = ?", code).
		Count(&total).Error
	if err != nil {
		return false, fmt.Errorf("failed to check tracking code: %w", err)
	}
	return total > 0, nil
}

func (r *gormRepository) Count(ctx context.Context, f models.Filter) (int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

func (r *gormRepository) List(ctx context.Context, f models.Filter, offset, limit int) ([]*models.Order, error) {
	q := r.filtered(ctx, f).Order("id DESC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var orders []*models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, code, status string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("tracking_code = ?", code).
		Update("status", status)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update order status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *gormRepository) CreateCustomRequest(ctx context.Context, req *models.CustomRequest) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(req).Error; err != nil {
		return fmt.Errorf("failed to create custom request: %w", err)
	}
	return nil
}

func (r *gormRepository) filtered(ctx context.Context, f models.Filter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.ItemLabel != "" {
		q = q.Where("item_label = ?", f.ItemLabel)
	}
	return q
}

// isUniqueViolation распознаёт нарушение уникальности и в postgres, и в sqlite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505")
}
