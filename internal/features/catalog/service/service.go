package service

import (
	"context"
	"errors"

	apperrors "concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/logger"
	"concierge-bot/internal/features/catalog/models"
	"concierge-bot/internal/features/catalog/repository"
)

var (
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "category not found")
	ErrItemNotFound     = apperrors.New(apperrors.ErrCodeItemNotFound, "item not found")
)

type CatalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListItems(ctx context.Context, categoryID uint) ([]models.Item, error)
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	GetItem(ctx context.Context, id uint) (*models.Item, error)
	ListAllItems(ctx context.Context) ([]models.Item, error)
	Seed(ctx context.Context, catalog []models.SeedCategory) error
}

type catalogService struct {
	repo repository.CatalogRepository
}

func NewCatalogService(repo repository.CatalogRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list categories", err)
	}
	return categories, nil
}

// ListItems возвращает услуги только указанной категории; пустой список не ошибка
func (s *catalogService) ListItems(ctx context.Context, categoryID uint) ([]models.Item, error) {
	items, err := s.repo.ListItems(ctx, categoryID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list items", err)
	}
	return items, nil
}

func (s *catalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, apperrors.NewDatabaseError("get category", err)
	}
	return category, nil
}

func (s *catalogService) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, apperrors.NewDatabaseError("get item", err)
	}
	return item, nil
}

func (s *catalogService) ListAllItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.ListAllItems(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list all items", err)
	}
	return items, nil
}

// Seed заполняет каталог, только если в нём нет ни одной категории
func (s *catalogService) Seed(ctx context.Context, catalog []models.SeedCategory) error {
	total, err := s.repo.CountCategories(ctx)
	if err != nil {
		return apperrors.NewDatabaseError("count categories", err)
	}
	if total > 0 {
		return nil
	}

	for pos, sc := range catalog {
		category := &models.Category{Title: sc.Title, Position: pos}
		for i, title := range sc.Items {
			category.Items = append(category.Items, models.Item{Title: title, Position: i})
		}
		if err := s.repo.CreateCategory(ctx, category); err != nil {
			return apperrors.NewDatabaseError("seed category", err)
		}
	}

	logger.Info().Int("categories", len(catalog)).Msg("Catalog seeded")
	return nil
}
