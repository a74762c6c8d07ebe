package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/middleware"
	"concierge-bot/internal/features/admin/service"
	ordermodels "concierge-bot/internal/features/order/models"
	usermodels "concierge-bot/internal/features/user/models"
)

type AdminHandler struct {
	service *service.Service
}

func NewAdminHandler(service *service.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/items", h.groupItems)
		admin.GET("/orders", h.listOrders)
		admin.GET("/orders/:code", h.getOrder)
		admin.PUT("/orders/:code/status", h.setOrderStatus)
		admin.GET("/users", h.listUsers)
		admin.GET("/users/:id", h.getUser)
		admin.PUT("/users/:id/role", h.setUserRole)
	}
}

func pageParam(c *gin.Context) (int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		return 0, errors.NewValidationError("page", "must be a non-negative integer")
	}
	return page, nil
}

// @Summary Items of an order group
// @Description Catalog items with the number of orders of the group in each; item_id 0 stands for requests outside the catalog
// @Tags admin
// @Produce json
// @Security TelegramInitData
// @Param group query string true "Status group" Enums(new, in_review, done)
// @Success 200 {array} service.GroupItem
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/items [get]
func (h *AdminHandler) groupItems(c *gin.Context) {
	items, err := h.service.GroupItems(c.Request.Context(), middleware.CurrentUser(c), ordermodels.Group(c.Query("group")))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// @Summary List orders
// @Description Paginated orders of a status group, optionally limited to one item, newest first
// @Tags admin
// @Produce json
// @Security TelegramInitData
// @Param group query string true "Status group" Enums(new, in_review, done)
// @Param item_id query int false "Catalog item ID, 0 for requests outside the catalog"
// @Param page query int false "Zero-based page" default(0)
// @Success 200 {object} service.OrdersPage
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/orders [get]
func (h *AdminHandler) listOrders(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	var itemID *uint
	if raw, ok := c.GetQuery("item_id"); ok {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			middleware.RespondError(c, errors.NewValidationError("item_id", "must be a non-negative integer"))
			return
		}
		v := uint(id)
		itemID = &v
	}

	result, err := h.service.ListOrdersGlobal(c.Request.Context(), middleware.CurrentUser(c), ordermodels.Group(c.Query("group")), itemID, page)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// OrderDetailResponse заказ вместе с клиентом
type OrderDetailResponse struct {
	Order    *ordermodels.Order `json:"order"`
	Customer *usermodels.User   `json:"customer,omitempty"`
}

// @Summary Get any order
// @Tags admin
// @Produce json
// @Security TelegramInitData
// @Param code path string true "Tracking code"
// @Success 200 {object} OrderDetailResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/orders/{code} [get]
func (h *AdminHandler) getOrder(c *gin.Context) {
	d, err := h.service.OrderDetail(c.Request.Context(), middleware.CurrentUser(c), c.Param("code"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, OrderDetailResponse{Order: d.Order, Customer: d.Customer})
}

// @Summary Change order status
// @Tags admin
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param code path string true "Tracking code"
// @Param request body models.SetStatusRequest true "New status"
// @Success 200 {object} OrderDetailResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/orders/{code}/status [put]
func (h *AdminHandler) setOrderStatus(c *gin.Context) {
	var req ordermodels.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, errors.Wrap(err, errors.ErrCodeValidation, "Invalid request body"))
		return
	}

	actor := middleware.CurrentUser(c)
	code := c.Param("code")
	ok, err := h.service.SetOrderStatus(c.Request.Context(), actor, code, req.Status)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	if !ok {
		middleware.RespondError(c, errors.NewNotFoundError("order", code))
		return
	}
	h.getOrder(c)
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security TelegramInitData
// @Param page query int false "Zero-based page" default(0)
// @Success 200 {object} pagination.Page[models.UserSummary]
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) listUsers(c *gin.Context) {
	page, err := pageParam(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	result, err := h.service.UsersPage(c.Request.Context(), middleware.CurrentUser(c), page)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func userIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// @Summary Get user
// @Tags admin
// @Produce json
// @Security TelegramInitData
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *AdminHandler) getUser(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	user, err := h.service.UserDetail(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// @Summary Change user role
// @Description Admins may change any role, their own included
// @Tags admin
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param id path int true "User ID"
// @Param request body models.SetRoleRequest true "New role"
// @Success 200 {object} models.User
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) setUserRole(c *gin.Context) {
	id, err := userIDParam(c)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	var req usermodels.SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, errors.Wrap(err, errors.ErrCodeValidation, "Invalid request body"))
		return
	}

	actor := middleware.CurrentUser(c)
	ok, err := h.service.SetUserRole(c.Request.Context(), actor, id, req.Role)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	if !ok {
		middleware.RespondError(c, errors.NewNotFoundError("user", id))
		return
	}

	// после понижения собственной роли читать карточку уже нельзя
	if !actor.IsAdmin() {
		c.JSON(http.StatusOK, gin.H{"id": id, "role": req.Role})
		return
	}
	h.getUser(c)
}
