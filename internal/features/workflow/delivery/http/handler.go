package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/middleware"
	ordermodels "concierge-bot/internal/features/order/models"
	usermodels "concierge-bot/internal/features/user/models"
	"concierge-bot/internal/features/workflow/service"
)

type WorkflowHandler struct {
	service *service.Service
}

func NewWorkflowHandler(service *service.Service) *WorkflowHandler {
	return &WorkflowHandler{service: service}
}

func (h *WorkflowHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/requests", h.submitRequest)

	orders := router.Group("/orders")
	{
		orders.GET("", h.listOrders)
		orders.GET("/:code", h.getOrder)
	}
}

func profile(user *usermodels.User) usermodels.Profile {
	return usermodels.Profile{
		TelegramID: user.TelegramID,
		Username:   user.Username,
		FullName:   user.FullName,
	}
}

// @Summary Submit a service request
// @Description Creates an order for the item at item_index (1-based) of the category and notifies admins
// @Tags orders
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body models.SubmitRequest true "Selected catalog item"
// @Success 201 {object} models.Receipt
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse "Category not found"
// @Failure 412 {object} middleware.ErrorResponse "Channel membership required"
// @Router /requests [post]
func (h *WorkflowHandler) submitRequest(c *gin.Context) {
	var req ordermodels.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, errors.Wrap(err, errors.ErrCodeValidation, "Invalid request body"))
		return
	}

	user := middleware.CurrentUser(c)
	receipt, err := h.service.SubmitRequest(c.Request.Context(), profile(user), req.CategoryID, req.ItemIndex)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// @Summary Get own order
// @Description Looks up an order by tracking code among the caller's orders only
// @Tags orders
// @Produce json
// @Security TelegramInitData
// @Param code path string true "Tracking code"
// @Success 200 {object} models.Order
// @Failure 404 {object} middleware.ErrorResponse
// @Router /orders/{code} [get]
func (h *WorkflowHandler) getOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)
	order, err := h.service.LookupOrder(c.Request.Context(), user.TelegramID, c.Param("code"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// @Summary List own orders
// @Description Orders of the caller in a status group, newest first
// @Tags orders
// @Produce json
// @Security TelegramInitData
// @Param group query string false "Status group" Enums(active, done) default(active)
// @Success 200 {array} models.Order
// @Failure 400 {object} middleware.ErrorResponse
// @Router /orders [get]
func (h *WorkflowHandler) listOrders(c *gin.Context) {
	group := ordermodels.Group(c.DefaultQuery("group", string(ordermodels.GroupActive)))
	user := middleware.CurrentUser(c)
	orders, err := h.service.ListOrders(c.Request.Context(), user.TelegramID, group)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
