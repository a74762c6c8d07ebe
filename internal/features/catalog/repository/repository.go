package repository

import (
	"context"
	"errors"

	"concierge-bot/internal/features/catalog/models"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("item not found")
)

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	ListItems(ctx context.Context, categoryID uint) ([]models.Item, error)
	GetItem(ctx context.Context, id uint) (*models.Item, error)
	ListAllItems(ctx context.Context) ([]models.Item, error)
	CountCategories(ctx context.Context) (int64, error)
	// CreateCategory сохраняет категорию вместе с вложенными Items.
	CreateCategory(ctx context.Context, category *models.Category) error
}
