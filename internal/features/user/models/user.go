package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleRegular = "regular"
)

// User представляет пользователя бота
// @Description Пользователь, созданный при первом обращении к боту
type User struct {
	ID         int64     `gorm:"primaryKey" json:"id" example:"17"`
	TelegramID int64     `gorm:"uniqueIndex;not null" json:"telegram_id" example:"123456789"`
	FullName   string    `gorm:"size:256" json:"full_name" example:"Sara Ahmadi"`
	Username   string    `gorm:"size:64" json:"username,omitempty" example:"sara_a"`
	Phone      string    `gorm:"size:32" json:"phone,omitempty" example:"09123456789"`
	Role       string    `gorm:"size:16;not null;default:regular" json:"role" enums:"admin,regular" example:"regular"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// DisplayName возвращает имя, затем @username, затем fallback.
func (u *User) DisplayName(fallback string) string {
	if u == nil {
		return fallback
	}
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return fallback
}

// Profile описывает пользователя так, как его видит транспорт.
type Profile struct {
	TelegramID int64
	Username   string
	FullName   string
	Phone      string
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleRegular
}

// UserSummary представляет пользователя в списке администратора
// @Description Краткая информация о пользователе
type UserSummary struct {
	ID         int64  `json:"id" example:"17"`
	TelegramID int64  `json:"telegram_id" example:"123456789"`
	Label      string `json:"label" example:"Sara Ahmadi"`
	Role       string `json:"role" example:"regular"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		TelegramID: u.TelegramID,
		Label:      u.DisplayName("unknown user"),
		Role:       u.Role,
	}
}

// SetRoleRequest тело запроса смены роли
type SetRoleRequest struct {
	Role string `json:"role" binding:"required" enums:"admin,regular" example:"admin"`
}
