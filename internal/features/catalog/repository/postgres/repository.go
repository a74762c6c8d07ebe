package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"concierge-bot/internal/features/catalog/models"
	"concierge-bot/internal/features/catalog/repository"
)

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) repository.CatalogRepository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("position ASC, id ASC").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *gormRepository) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

func (r *gormRepository) ListItems(ctx context.Context, categoryID uint) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("position ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

func (r *gormRepository) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

func (r *gormRepository) ListAllItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Joins("JOIN categories ON categories.id = items.category_id").
		Order("categories.position ASC, categories.id ASC, items.position ASC, items.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list all items: %w", err)
	}
	return items, nil
}

func (r *gormRepository) CountCategories(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return total, nil
}

func (r *gormRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}
