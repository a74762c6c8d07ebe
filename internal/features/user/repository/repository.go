package repository

import (
	"context"
	"errors"

	"concierge-bot/internal/features/user/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	// CreateIfAbsent вставляет пользователя, если telegram_id ещё не занят.
	// Возвращает true, если строка была создана.
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id int64, username, fullName string) error
	UpdatePhone(ctx context.Context, id int64, phone string) error
	UpdateRole(ctx context.Context, id int64, role string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	ListByRole(ctx context.Context, role string) ([]*models.User, error)
}
