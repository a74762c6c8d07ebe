package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"concierge-bot/internal/bot/session"
	apperrors "concierge-bot/internal/common/errors"
	catalogmodels "concierge-bot/internal/features/catalog/models"
	catalogrepo "concierge-bot/internal/features/catalog/repository/postgres"
	catalogsvc "concierge-bot/internal/features/catalog/service"
	notificationsvc "concierge-bot/internal/features/notification/service"
	ordermodels "concierge-bot/internal/features/order/models"
	orderrepo "concierge-bot/internal/features/order/repository/postgres"
	ordersvc "concierge-bot/internal/features/order/service"
	usermodels "concierge-bot/internal/features/user/models"
	userrepo "concierge-bot/internal/features/user/repository/postgres"
	usersvc "concierge-bot/internal/features/user/service"
	"concierge-bot/internal/platform/database"
)

type countingNotifier struct {
	orders []string
}

func (n *countingNotifier) NotifyOrderCreated(_ context.Context, order *ordermodels.Order, _ *usermodels.User) []notificationsvc.Delivery {
	n.orders = append(n.orders, order.TrackingCode)
	return []notificationsvc.Delivery{{TelegramID: 1, Err: errors.New("unreachable")}}
}

type fixedMembership struct {
	member bool
	err    error
}

func (f fixedMembership) IsMember(context.Context, int64) (bool, error) {
	return f.member, f.err
}

type env struct {
	svc      *Service
	db       *gorm.DB
	notifier *countingNotifier
	catalog  catalogsvc.CatalogService
	ledger   ordersvc.Ledger
	users    usersvc.UserService
	health   catalogmodels.Category
	empty    catalogmodels.Category
}

var testCatalog = []catalogmodels.SeedCategory{
	{Title: "Preventive Health", Items: []string{"Health Assessment", "Alzheimer Screening"}},
	{Title: "Coming Soon"},
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()
	ctx := context.Background()
	db := database.NewTestDB(t)

	e := &env{db: db, notifier: &countingNotifier{}}
	e.users = usersvc.NewUserService(userrepo.NewRepository(db), nil)
	e.catalog = catalogsvc.NewCatalogService(catalogrepo.NewRepository(db))
	e.ledger = ordersvc.NewLedger(orderrepo.NewRepository(db))
	require.NoError(t, e.catalog.Seed(ctx, testCatalog))

	categories, err := e.catalog.ListCategories(ctx)
	require.NoError(t, err)
	e.health, e.empty = categories[0], categories[1]

	e.svc = NewService(e.users, e.catalog, e.ledger, e.notifier, opts...)
	return e
}

var sara = usermodels.Profile{TelegramID: 1001, Username: "sara", FullName: "Sara A"}

func TestSubmitRequestPreventiveHealth(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	receipt, err := e.svc.SubmitRequest(ctx, sara, e.health.ID, 1)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), receipt.TrackingCode)
	assert.True(t, receipt.NeedContact)

	order, err := e.svc.LookupOrder(ctx, sara.TelegramID, receipt.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, "Preventive Health", order.CategoryLabel)
	assert.Equal(t, "Health Assessment", order.ItemLabel)
	assert.Equal(t, ordermodels.StatusPending, order.Status)
	assert.Equal(t, "Sara A", order.ContactName)
	assert.Equal(t, []string{receipt.TrackingCode}, e.notifier.orders)
}

func TestLookupOrderIsScopedToOwner(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	receipt, err := e.svc.SubmitRequest(ctx, sara, e.health.ID, 2)
	require.NoError(t, err)

	_, err = e.svc.SubmitRequest(ctx, usermodels.Profile{TelegramID: 2002}, e.health.ID, 1)
	require.NoError(t, err)

	_, err = e.svc.LookupOrder(ctx, 2002, receipt.TrackingCode)
	assert.ErrorIs(t, err, ordersvc.ErrOrderNotFound)

	_, err = e.svc.LookupOrder(ctx, 3003, receipt.TrackingCode)
	assert.ErrorIs(t, err, ordersvc.ErrOrderNotFound)

	_, err = e.svc.LookupOrder(ctx, sara.TelegramID, "12ab")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStatusChangeVisibleToOwner(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	receipt, err := e.svc.SubmitRequest(ctx, sara, e.health.ID, 1)
	require.NoError(t, err)

	ok, err := e.ledger.SetStatus(ctx, receipt.TrackingCode, ordermodels.StatusDone)
	require.NoError(t, err)
	require.True(t, ok)

	order, err := e.svc.LookupOrder(ctx, sara.TelegramID, receipt.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, ordermodels.StatusDone, order.Status)

	active, err := e.svc.ListOrders(ctx, sara.TelegramID, ordermodels.GroupActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	done, err := e.svc.ListOrders(ctx, sara.TelegramID, ordermodels.GroupDone)
	require.NoError(t, err)
	assert.Len(t, done, 1)

	_, err = e.svc.ListOrders(ctx, sara.TelegramID, ordermodels.GroupInReview)
	assert.True(t, apperrors.IsValidation(err))

	none, err := e.svc.ListOrders(ctx, 404, ordermodels.GroupActive)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDialogueTransitions(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sess := session.New(sara.TelegramID)

	categories, err := e.svc.BrowseCategories(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, session.StateBrowsingCategories, sess.State)

	cv, err := e.svc.SelectCategory(ctx, sess, e.empty.ID)
	require.NoError(t, err)
	assert.Empty(t, cv.Items)
	assert.Equal(t, session.StateBrowsingItems, sess.State)

	cv, err = e.svc.SelectCategory(ctx, sess, e.health.ID)
	require.NoError(t, err)
	require.Len(t, cv.Items, 2)
	for _, it := range cv.Items {
		assert.Equal(t, e.health.ID, it.CategoryID)
	}

	sel, err := e.svc.SelectItem(ctx, sess, e.health.ID, 7)
	require.NoError(t, err)
	assert.Nil(t, sel.Item)
	assert.Equal(t, UnknownOption, sel.ItemLabel())
	assert.Equal(t, session.StateReviewingSelection, sess.State)

	sel, err = e.svc.SelectItem(ctx, sess, e.health.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Alzheimer Screening", sel.ItemLabel())

	c, err := e.svc.Confirm(ctx, sess, sara, sess.CategoryID, sess.ItemIndex)
	require.NoError(t, err)
	assert.True(t, c.NeedContact)
	assert.Len(t, c.Deliveries, 1, "delivery failures are reported, not returned as errors")
	assert.Equal(t, session.StateAwaitingContact, sess.State)
	assert.Equal(t, c.Order.TrackingCode, sess.TrackingCode)

	_, err = e.svc.SubmitContact(ctx, sess, sara, "abc")
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, session.StateAwaitingContact, sess.State)

	user, err := e.svc.SubmitContact(ctx, sess, sara, "۰۹۱۲۳۴۵۶۷۸۹")
	require.NoError(t, err)
	assert.Equal(t, "09123456789", user.Phone)
	assert.Equal(t, session.StateConfirmed, sess.State)

	c, err = e.svc.Confirm(ctx, sess, sara, e.health.ID, 1)
	require.NoError(t, err)
	assert.False(t, c.NeedContact)
	assert.Equal(t, "09123456789", c.Order.ContactPhone)
	assert.Equal(t, session.StateConfirmed, sess.State)
}

func TestMissingCategoryReturnsToMenu(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sess := session.New(sara.TelegramID)
	sess.State = session.StateReviewingSelection
	sess.CategoryID = 999

	_, err := e.svc.SelectCategory(ctx, sess, 999)
	assert.ErrorIs(t, err, catalogsvc.ErrCategoryNotFound)
	assert.Equal(t, session.StateBrowsingCategories, sess.State)

	_, err = e.svc.Confirm(ctx, sess, sara, 999, 1)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Empty(t, e.notifier.orders)
}

func TestCustomRequest(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sess := session.New(sara.TelegramID)

	text := "  night nurse twice a week  "
	_, err := e.svc.SubmitCustomRequest(ctx, sess, sara, &text)
	assert.ErrorIs(t, err, ErrNotAwaitingInput)

	e.svc.StartCustomRequest(sess)
	assert.True(t, sess.Expects())

	blank := "   "
	_, err = e.svc.SubmitCustomRequest(ctx, sess, sara, &blank)
	assert.True(t, apperrors.IsValidation(err))

	c, err := e.svc.SubmitCustomRequest(ctx, sess, sara, &text)
	require.NoError(t, err)
	assert.Equal(t, ordermodels.CustomCategoryLabel, c.Order.CategoryLabel)
	assert.Equal(t, ordermodels.CustomItemLabel, c.Order.ItemLabel)

	var req ordermodels.CustomRequest
	require.NoError(t, e.db.Where("tracking_code = ?", c.Order.TrackingCode).First(&req).Error)
	require.NotNil(t, req.Content)
	assert.Equal(t, "night nurse twice a week", *req.Content)

	e.svc.StartCustomRequest(sess)
	c, err = e.svc.SubmitCustomRequest(ctx, sess, sara, nil)
	require.NoError(t, err)
	require.NoError(t, e.db.Where("tracking_code = ?", c.Order.TrackingCode).First(&req).Error)
	assert.Nil(t, req.Content)
}

type lossyLedger struct {
	ordersvc.Ledger
}

func (lossyLedger) CreateCustomRequest(context.Context, *ordermodels.CustomRequest) error {
	return apperrors.NewDatabaseError("create custom request", errors.New("disk full"))
}

func TestCustomRequestStoreFailureStillNotifies(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	svc := NewService(e.users, e.catalog, lossyLedger{e.ledger}, e.notifier)
	sess := session.New(sara.TelegramID)
	svc.StartCustomRequest(sess)

	text := "night nurse twice a week"
	c, err := svc.SubmitCustomRequest(ctx, sess, sara, &text)
	require.NoError(t, err)
	assert.Equal(t, []string{c.Order.TrackingCode}, e.notifier.orders)
	assert.Equal(t, c.Order.TrackingCode, sess.TrackingCode)
	assert.Equal(t, session.StateAwaitingContact, sess.State)

	order, err := e.svc.LookupOrder(ctx, sara.TelegramID, c.Order.TrackingCode)
	require.NoError(t, err)
	assert.Equal(t, ordermodels.CustomItemLabel, order.ItemLabel)
}

func TestReorder(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sess := session.New(sara.TelegramID)

	receipt, err := e.svc.SubmitRequest(ctx, sara, e.health.ID, 2)
	require.NoError(t, err)

	c, err := e.svc.Reorder(ctx, sess, sara, receipt.TrackingCode)
	require.NoError(t, err)
	assert.NotEqual(t, receipt.TrackingCode, c.Order.TrackingCode)
	assert.Equal(t, "Alzheimer Screening", c.Order.ItemLabel)

	_, err = e.svc.Reorder(ctx, sess, usermodels.Profile{TelegramID: 5}, receipt.TrackingCode)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMembershipGate(t *testing.T) {
	ctx := context.Background()

	e := newEnv(t, WithMembershipGate(fixedMembership{member: false}))
	_, err := e.svc.SubmitRequest(ctx, sara, e.health.ID, 1)
	assert.ErrorIs(t, err, ErrMembershipRequired)
	assert.Empty(t, e.notifier.orders)

	e = newEnv(t, WithMembershipGate(fixedMembership{err: errors.New("429 too many requests")}))
	_, err = e.svc.SubmitRequest(ctx, sara, e.health.ID, 1)
	assert.NoError(t, err)
}
