package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/middleware"
	"concierge-bot/internal/features/catalog/service"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(service service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.listCategories)
		categories.GET("/:id/items", h.listItems)
	}
}

// @Summary List categories
// @Description Categories of the service catalog in display order
// @Tags catalog
// @Produce json
// @Security TelegramInitData
// @Success 200 {array} models.Category
// @Failure 401 {object} middleware.ErrorResponse
// @Router /categories [get]
func (h *CatalogHandler) listCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// @Summary List category items
// @Description Items of one category; positions in the list are the 1-based item_index used by POST /requests
// @Tags catalog
// @Produce json
// @Security TelegramInitData
// @Param id path int true "Category ID"
// @Success 200 {array} models.Item
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /categories/{id}/items [get]
func (h *CatalogHandler) listItems(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		middleware.RespondError(c, errors.NewValidationError("id", "must be a positive integer"))
		return
	}
	category, err := h.service.GetCategory(c.Request.Context(), uint(id))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	items, err := h.service.ListItems(c.Request.Context(), category.ID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
