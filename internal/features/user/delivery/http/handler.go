package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/middleware"
	"concierge-bot/internal/common/validation"
	"concierge-bot/internal/features/user/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.PUT("/me/phone", h.setPhone)
	}
}

// SetPhoneRequest тело запроса сохранения телефона
type SetPhoneRequest struct {
	Phone string `json:"phone" binding:"required" example:"09123456789"`
}

// @Summary Get current user
// @Description Returns the caller, created on first contact from Telegram init data
// @Tags users
// @Produce json
// @Security TelegramInitData
// @Success 200 {object} models.User
// @Failure 401 {object} middleware.ErrorResponse "Missing init data"
// @Router /users/me [get]
func (h *UserHandler) getMe(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// @Summary Save contact phone
// @Description Normalizes Persian and Arabic-Indic digits and stores the phone on the caller
// @Tags users
// @Accept json
// @Produce json
// @Security TelegramInitData
// @Param request body SetPhoneRequest true "Phone number"
// @Success 200 {object} models.User
// @Failure 400 {object} middleware.ErrorResponse "Invalid phone"
// @Router /users/me/phone [put]
func (h *UserHandler) setPhone(c *gin.Context) {
	var req SetPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondError(c, errors.Wrap(err, errors.ErrCodeValidation, "Invalid request body"))
		return
	}
	phone, err := validation.ValidatePhone(req.Phone)
	if err != nil {
		middleware.RespondError(c, errors.Wrap(err, errors.ErrCodeInvalidPhone, "invalid phone number"))
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.service.SetPhone(c.Request.Context(), user, phone); err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
