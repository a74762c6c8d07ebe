package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge-bot/internal/common/middleware"
	"concierge-bot/internal/features/user/models"
	userrepo "concierge-bot/internal/features/user/repository/postgres"
	"concierge-bot/internal/features/user/service"
	"concierge-bot/internal/platform/database"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, service.UserService, *models.User) {
	t.Helper()
	users := service.NewUserService(userrepo.NewRepository(database.NewTestDB(t)), nil)
	me, err := users.Resolve(context.Background(), models.Profile{TelegramID: 1001, Username: "sara", FullName: "Sara A"}, false)
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	api := r.Group("/api/v1", func(c *gin.Context) {
		middleware.SetCurrentUser(c, me)
		c.Next()
	})
	NewUserHandler(users).RegisterRoutes(api)
	return r, users, me
}

func putPhone(r *gin.Engine, phone string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(SetPhoneRequest{Phone: phone})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me/phone", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetMe(t *testing.T) {
	r, _, me := newRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var got models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, me.ID, got.ID)
	assert.Equal(t, models.RoleRegular, got.Role)
}

func TestSetPhoneNormalizesDigits(t *testing.T) {
	r, users, me := newRouter(t)

	w := putPhone(r, "۰۹۱۲ ۳۴۵ ۶۷۸۹")
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := users.GetByID(context.Background(), me.ID)
	require.NoError(t, err)
	assert.Equal(t, "09123456789", stored.Phone)

	w = putPhone(r, "call me")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
