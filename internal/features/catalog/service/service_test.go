package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "concierge-bot/internal/common/errors"
	"concierge-bot/internal/features/catalog/models"
	"concierge-bot/internal/features/catalog/repository/postgres"
	"concierge-bot/internal/platform/database"
)

func seeded(t *testing.T) CatalogService {
	t.Helper()
	svc := NewCatalogService(postgres.NewRepository(database.NewTestDB(t)))
	require.NoError(t, svc.Seed(context.Background(), models.DefaultCatalog))
	return svc
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := seeded(t)
	require.NoError(t, svc.Seed(ctx, []models.SeedCategory{{Title: "Extra"}}))

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, len(models.DefaultCatalog))
	for i, c := range categories {
		assert.Equal(t, models.DefaultCatalog[i].Title, c.Title)
	}
}

func TestListItemsScopedToCategory(t *testing.T) {
	ctx := context.Background()
	svc := seeded(t)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)

	for i, c := range categories {
		items, err := svc.ListItems(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, items, len(models.DefaultCatalog[i].Items))
		for j, it := range items {
			assert.Equal(t, c.ID, it.CategoryID)
			assert.Equal(t, models.DefaultCatalog[i].Items[j], it.Title)
		}
	}

	all, err := svc.ListAllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 10)
	assert.Equal(t, "Health Assessment", all[0].Title)
}

func TestMissingLookups(t *testing.T) {
	ctx := context.Background()
	svc := seeded(t)

	_, err := svc.GetCategory(ctx, 999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.GetItem(ctx, 999)
	assert.ErrorIs(t, err, ErrItemNotFound)

	items, err := svc.ListItems(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, items)
}
