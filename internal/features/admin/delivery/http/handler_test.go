package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge-bot/internal/common/middleware"
	"concierge-bot/internal/features/admin/service"
	catalogmodels "concierge-bot/internal/features/catalog/models"
	catalogrepo "concierge-bot/internal/features/catalog/repository/postgres"
	catalogsvc "concierge-bot/internal/features/catalog/service"
	ordermodels "concierge-bot/internal/features/order/models"
	orderrepo "concierge-bot/internal/features/order/repository/postgres"
	ordersvc "concierge-bot/internal/features/order/service"
	usermodels "concierge-bot/internal/features/user/models"
	userrepo "concierge-bot/internal/features/user/repository/postgres"
	usersvc "concierge-bot/internal/features/user/service"
	"concierge-bot/internal/platform/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type server struct {
	router *gin.Engine
	ledger ordersvc.Ledger
	items  []catalogmodels.Item
	admin  *usermodels.User
	member *usermodels.User
	as     *usermodels.User
}

func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()
	db := database.NewTestDB(t)

	users := usersvc.NewUserService(userrepo.NewRepository(db), []int64{900})
	catalog := catalogsvc.NewCatalogService(catalogrepo.NewRepository(db))
	require.NoError(t, catalog.Seed(ctx, []catalogmodels.SeedCategory{
		{Title: "Daily Needs", Items: []string{"Daily Shopping", "Emergency Needs"}},
	}))

	s := &server{ledger: ordersvc.NewLedger(orderrepo.NewRepository(db))}
	var err error
	s.items, err = catalog.ListAllItems(ctx)
	require.NoError(t, err)
	s.admin, err = users.Resolve(ctx, usermodels.Profile{TelegramID: 900, FullName: "Admin"}, false)
	require.NoError(t, err)
	s.member, err = users.Resolve(ctx, usermodels.Profile{TelegramID: 1001, Username: "sara"}, false)
	require.NoError(t, err)

	s.router = gin.New()
	s.router.Use(middleware.RequestID(), middleware.ErrorHandler())
	api := s.router.Group("/api/v1", func(c *gin.Context) {
		if s.as != nil {
			middleware.SetCurrentUser(c, s.as)
		}
		c.Next()
	})
	NewAdminHandler(service.NewService(users, catalog, s.ledger)).RegisterRoutes(api)
	return s
}

func (s *server) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) order(t *testing.T, item string) *ordermodels.Order {
	t.Helper()
	o := &ordermodels.Order{UserID: s.member.ID, CategoryLabel: "Daily Needs", ItemLabel: item}
	require.NoError(t, s.ledger.Create(context.Background(), o))
	return o
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newServer(t)
	o := s.order(t, "Daily Shopping")

	w := s.do(t, http.MethodGet, "/admin/orders?group=new", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.as = s.member
	w = s.do(t, http.MethodPut, "/admin/orders/"+o.TrackingCode+"/status", ordermodels.SetStatusRequest{Status: ordermodels.StatusDone})
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.as = s.admin
	w = s.do(t, http.MethodGet, "/admin/orders/"+o.TrackingCode, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail OrderDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, ordermodels.StatusPending, detail.Order.Status)
}

func TestListOrdersByGroupAndItem(t *testing.T) {
	s := newServer(t)
	s.as = s.admin
	for i := 0; i < 12; i++ {
		s.order(t, "Daily Shopping")
	}
	s.order(t, "Emergency Needs")

	w := s.do(t, http.MethodGet, "/admin/orders?group=new&page=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all service.OrdersPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Equal(t, int64(13), all.Page.Total)
	assert.Len(t, all.Page.Items, 3)
	assert.True(t, all.Page.HasPrev)
	assert.False(t, all.Page.HasNext)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/admin/orders?group=new&item_id=%d", s.items[1].ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var one service.OrdersPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	assert.Equal(t, "Emergency Needs", one.ItemTitle)
	assert.Equal(t, int64(1), one.Page.Total)

	w = s.do(t, http.MethodGet, "/admin/orders?group=archived", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/admin/orders?group=new&page=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/admin/items?group=new", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []service.GroupItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.NotEmpty(t, items)
	assert.Equal(t, int64(12), items[0].Count)
}

func TestSetOrderStatus(t *testing.T) {
	s := newServer(t)
	s.as = s.admin
	o := s.order(t, "Daily Shopping")

	w := s.do(t, http.MethodPut, "/admin/orders/"+o.TrackingCode+"/status", ordermodels.SetStatusRequest{Status: ordermodels.StatusInProgress})
	require.Equal(t, http.StatusOK, w.Code)
	var detail OrderDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, ordermodels.StatusInProgress, detail.Order.Status)
	require.NotNil(t, detail.Customer)
	assert.Equal(t, s.member.ID, detail.Customer.ID)

	w = s.do(t, http.MethodPut, "/admin/orders/000000/status", ordermodels.SetStatusRequest{Status: ordermodels.StatusDone})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPut, "/admin/orders/"+o.TrackingCode+"/status", ordermodels.SetStatusRequest{Status: "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/admin/orders/"+o.TrackingCode+"/status", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUsersAndRoles(t *testing.T) {
	s := newServer(t)
	s.as = s.admin

	w := s.do(t, http.MethodGet, "/admin/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []usermodels.UserSummary `json:"items"`
		Total int64                    `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)

	path := fmt.Sprintf("/admin/users/%d/role", s.member.ID)
	w = s.do(t, http.MethodPut, path, usermodels.SetRoleRequest{Role: usermodels.RoleAdmin})
	require.Equal(t, http.StatusOK, w.Code)
	var promoted usermodels.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &promoted))
	assert.Equal(t, usermodels.RoleAdmin, promoted.Role)

	w = s.do(t, http.MethodPut, path, usermodels.SetRoleRequest{Role: "owner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/admin/users/9999/role", usermodels.SetRoleRequest{Role: usermodels.RoleAdmin})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/admin/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// понижение самого себя сразу лишает доступа
	w = s.do(t, http.MethodPut, fmt.Sprintf("/admin/users/%d/role", s.admin.ID), usermodels.SetRoleRequest{Role: usermodels.RoleRegular})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"regular"`)

	w = s.do(t, http.MethodGet, "/admin/users", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
