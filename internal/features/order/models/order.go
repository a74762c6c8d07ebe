package models

import (
	"time"

	usermodels "concierge-bot/internal/features/user/models"
)

const (
	StatusPending    = "pending"
	StatusReviewed   = "reviewed"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
	StatusRejected   = "rejected"
)

// Метки заказа, созданного из свободной заявки
const (
	CustomCategoryLabel = "custom request"
	CustomItemLabel     = "not in catalog"
)

// ModerationStatuses в порядке показа в меню смены статуса
var ModerationStatuses = []string{StatusReviewed, StatusRejected, StatusInProgress, StatusDone}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusReviewed, StatusInProgress, StatusDone, StatusRejected:
		return true
	}
	return false
}

// Group именованный набор статусов
type Group string

const (
	// Группы администратора
	GroupNew      Group = "new"
	GroupInReview Group = "in_review"
	GroupDone     Group = "done"

	// Группы пользователя
	GroupActive Group = "active"
)

var (
	AdminGroups = []Group{GroupNew, GroupInReview, GroupDone}
	UserGroups  = []Group{GroupActive, GroupDone}
)

var adminGroupStatuses = map[Group][]string{
	GroupNew:      {StatusPending},
	GroupInReview: {StatusReviewed, StatusInProgress},
	GroupDone:     {StatusDone, StatusRejected},
}

var userGroupStatuses = map[Group][]string{
	GroupActive: {StatusPending, StatusReviewed, StatusInProgress},
	GroupDone:   {StatusDone, StatusRejected},
}

// AdminGroupStatuses возвращает статусы группы и false для неизвестной группы.
func AdminGroupStatuses(g Group) ([]string, bool) {
	s, ok := adminGroupStatuses[g]
	return s, ok
}

func UserGroupStatuses(g Group) ([]string, bool) {
	s, ok := userGroupStatuses[g]
	return s, ok
}

// Order заявка пользователя. Метки категории и услуги копируются при создании
// и не ссылаются на каталог.
// @Description Заказ
type Order struct {
	ID              int64            `gorm:"primaryKey" json:"id" example:"42"`
	UserID          int64            `gorm:"index;not null" json:"user_id" example:"17"`
	User            *usermodels.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	TrackingCode    string           `gorm:"size:16;uniqueIndex;not null" json:"tracking_code" example:"004217"`
	Status          string           `gorm:"size:32;index;not null" json:"status" example:"pending"`
	CategoryLabel   string           `gorm:"size:128" json:"category_label" example:"Preventive Health"`
	ItemLabel       string           `gorm:"size:128;index" json:"item_label" example:"Health Assessment"`
	ContactPhone    string           `gorm:"size:32" json:"contact_phone,omitempty"`
	ContactName     string           `gorm:"size:256" json:"contact_name,omitempty"`
	ContactUsername string           `gorm:"size:64" json:"contact_username,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// IsFinished true для завершённых и отклонённых заказов
func (o *Order) IsFinished() bool {
	return o.Status == StatusDone || o.Status == StatusRejected
}

// CustomRequest свободная заявка вне каталога. Content может быть пустым,
// если пользователь прислал медиа без текста.
type CustomRequest struct {
	ID           int64            `gorm:"primaryKey" json:"id"`
	UserID       int64            `gorm:"index;not null" json:"user_id"`
	User         *usermodels.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Content      *string          `gorm:"type:text" json:"content"`
	TrackingCode string           `gorm:"size:16;index" json:"tracking_code"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Filter условия выборки заказов. Пустые поля не ограничивают выборку.
type Filter struct {
	UserID    *int64
	Statuses  []string
	ItemLabel string
}

// OrderSummary строка списка заказов
// @Description Краткое представление заказа
type OrderSummary struct {
	TrackingCode  string    `json:"tracking_code" example:"004217"`
	Label         string    `json:"label" example:"Sara Ahmadi"`
	Status        string    `json:"status" example:"pending"`
	CategoryLabel string    `json:"category_label" example:"Preventive Health"`
	ItemLabel     string    `json:"item_label" example:"Health Assessment"`
	CreatedAt     time.Time `json:"created_at"`
}

func (o *Order) Summary(label string) OrderSummary {
	return OrderSummary{
		TrackingCode:  o.TrackingCode,
		Label:         label,
		Status:        o.Status,
		CategoryLabel: o.CategoryLabel,
		ItemLabel:     o.ItemLabel,
		CreatedAt:     o.CreatedAt,
	}
}

// SetStatusRequest тело запроса смены статуса
type SetStatusRequest struct {
	Status string `json:"status" binding:"required" example:"done"`
}

// SubmitRequest тело запроса создания заказа
type SubmitRequest struct {
	CategoryID uint `json:"category_id" binding:"required" example:"1"`
	ItemIndex  int  `json:"item_index" binding:"required" example:"1"`
}

// Receipt результат оформления заказа
// @Description Ответ на создание заказа
type Receipt struct {
	TrackingCode string `json:"tracking_code" example:"004217"`
	NeedContact  bool   `json:"need_contact" example:"true"`
}
