package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "concierge-bot/internal/common/errors"
	"concierge-bot/internal/features/user/models"
	"concierge-bot/internal/features/user/repository/postgres"
	"concierge-bot/internal/platform/database"
)

func newService(t *testing.T, admins ...int64) UserService {
	t.Helper()
	db := database.NewTestDB(t)
	return NewUserService(postgres.NewRepository(db), admins)
}

func TestResolveCreatesOnFirstContact(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, 900)

	regular, err := svc.Resolve(ctx, models.Profile{TelegramID: 100, Username: "sara", FullName: "Sara A"}, true)
	require.NoError(t, err)
	assert.NotZero(t, regular.ID)
	assert.Equal(t, models.RoleRegular, regular.Role)

	admin, err := svc.Resolve(ctx, models.Profile{TelegramID: 900, FullName: "Ops"}, true)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestResolveWithoutRefreshIsReadOnly(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	p := models.Profile{TelegramID: 100, Username: "sara", FullName: "Sara A"}

	first, err := svc.Resolve(ctx, p, false)
	require.NoError(t, err)
	stored, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)

	p.Username = "renamed"
	second, err := svc.Resolve(ctx, p, false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	after, err := svc.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Username, after.Username)
	assert.True(t, stored.UpdatedAt.Equal(after.UpdatedAt))
}

func TestResolveRefreshUpdatesChangedFields(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	u, err := svc.Resolve(ctx, models.Profile{TelegramID: 100, Username: "sara"}, true)
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, models.Profile{TelegramID: 100, Username: "sara_new", FullName: "Sara"}, true)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "sara_new", got.Username)
	assert.Equal(t, "Sara", got.FullName)
}

func TestResolveConcurrentFirstContact(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	var wg sync.WaitGroup
	ids := make([]int64, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u, err := svc.Resolve(ctx, models.Profile{TelegramID: 555}, false)
			if assert.NoError(t, err) {
				ids[i] = u.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	total, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	u, err := svc.Resolve(ctx, models.Profile{TelegramID: 1}, false)
	require.NoError(t, err)

	ok, err := svc.SetRole(ctx, u.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, ok)

	admins, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, u.ID, admins[0].ID)

	ok, err = svc.SetRole(ctx, 9999, models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.SetRole(ctx, u.ID, "owner")
	assert.True(t, apperrors.IsValidation(err))
}

func TestSetPhone(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	u, err := svc.Resolve(ctx, models.Profile{TelegramID: 1}, false)
	require.NoError(t, err)
	require.NoError(t, svc.SetPhone(ctx, u, "09123456789"))
	require.NoError(t, svc.SetPhone(ctx, u, "+989123456789"))

	got, err := svc.GetByTelegramID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "+989123456789", got.Phone)
}

func TestGetByIDsSkipsMissing(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	a, err := svc.Resolve(ctx, models.Profile{TelegramID: 1}, false)
	require.NoError(t, err)

	users, err := svc.GetByIDs(ctx, []int64{a.ID, 4242})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Contains(t, users, a.ID)

	_, err = svc.GetByID(ctx, 4242)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, 77))
	require.NoError(t, svc.EnsureBootstrapAdmin(ctx, 78))

	admins, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, int64(77), admins[0].TelegramID)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Sara", (&models.User{FullName: "Sara", Username: "s"}).DisplayName("x"))
	assert.Equal(t, "@s", (&models.User{Username: "s"}).DisplayName("x"))
	assert.Equal(t, "x", (&models.User{}).DisplayName("x"))
}
