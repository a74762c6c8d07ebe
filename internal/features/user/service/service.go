package service

import (
	"context"
	"errors"
	"strings"

	apperrors "concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/logger"
	"concierge-bot/internal/features/user/models"
	"concierge-bot/internal/features/user/repository"
)

var ErrUserNotFound = apperrors.New(apperrors.ErrCodeUserNotFound, "user not found")

type UserService interface {
	Resolve(ctx context.Context, profile models.Profile, refresh bool) (*models.User, error)
	SetRole(ctx context.Context, userID int64, role string) (bool, error)
	SetPhone(ctx context.Context, user *models.User, phone string) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)
	List(ctx context.Context, offset, limit int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	ListAdmins(ctx context.Context) ([]*models.User, error)
	EnsureBootstrapAdmin(ctx context.Context, telegramID int64) error
}

type userService struct {
	repo     repository.UserRepository
	adminIDs map[int64]struct{}
}

func NewUserService(repo repository.UserRepository, adminIDs []int64) UserService {
	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}
	return &userService{repo: repo, adminIDs: ids}
}

// Resolve возвращает пользователя по Telegram ID, создавая его при первом
// обращении. При refresh=true меняет username и имя, только если они изменились.
func (s *userService) Resolve(ctx context.Context, p models.Profile, refresh bool) (*models.User, error) {
	user, err := s.repo.GetByTelegramID(ctx, p.TelegramID)
	switch {
	case err == nil:
		if refresh {
			return s.refresh(ctx, user, p)
		}
		return user, nil
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, apperrors.NewDatabaseError("get user", err)
	}

	role := models.RoleRegular
	if _, ok := s.adminIDs[p.TelegramID]; ok {
		role = models.RoleAdmin
	}
	newUser := &models.User{
		TelegramID: p.TelegramID,
		FullName:   strings.TrimSpace(p.FullName),
		Username:   p.Username,
		Phone:      p.Phone,
		Role:       role,
	}
	created, err := s.repo.CreateIfAbsent(ctx, newUser)
	if err != nil {
		return nil, apperrors.NewDatabaseError("create user", err)
	}
	if created {
		logger.Info().
			Int64("telegram_id", p.TelegramID).
			Str("role", role).
			Msg("User created")
		return newUser, nil
	}

	// Параллельное первое обращение уже создало строку
	user, err = s.repo.GetByTelegramID(ctx, p.TelegramID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("reload user", err)
	}
	return user, nil
}

func (s *userService) refresh(ctx context.Context, user *models.User, p models.Profile) (*models.User, error) {
	fullName := strings.TrimSpace(p.FullName)
	if user.Username == p.Username && user.FullName == fullName {
		return user, nil
	}
	if err := s.repo.UpdateProfile(ctx, user.ID, p.Username, fullName); err != nil {
		return nil, apperrors.NewDatabaseError("update user", err)
	}
	user.Username = p.Username
	user.FullName = fullName
	return user, nil
}

// SetRole возвращает false без ошибки, если пользователь не найден
func (s *userService) SetRole(ctx context.Context, userID int64, role string) (bool, error) {
	if !models.ValidRole(role) {
		return false, apperrors.NewValidationError("role", "must be admin or regular")
	}
	ok, err := s.repo.UpdateRole(ctx, userID, role)
	if err != nil {
		return false, apperrors.NewDatabaseError("set role", err)
	}
	return ok, nil
}

func (s *userService) SetPhone(ctx context.Context, user *models.User, phone string) error {
	if err := s.repo.UpdatePhone(ctx, user.ID, phone); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return apperrors.NewDatabaseError("set phone", err)
	}
	user.Phone = phone
	return nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperrors.NewDatabaseError("get user", err)
	}
	return user, nil
}

func (s *userService) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, apperrors.NewDatabaseError("get user", err)
	}
	return user, nil
}

// GetByIDs возвращает найденных пользователей по их ID; отсутствующие пропускаются.
func (s *userService) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	users, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get users", err)
	}
	out := make(map[int64]*models.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]*models.User, error) {
	users, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list users", err)
	}
	return users, nil
}

func (s *userService) Count(ctx context.Context) (int64, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.NewDatabaseError("count users", err)
	}
	return total, nil
}

func (s *userService) ListAdmins(ctx context.Context) ([]*models.User, error) {
	admins, err := s.repo.ListByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list admins", err)
	}
	return admins, nil
}

// EnsureBootstrapAdmin создаёт администратора, если таблица пользователей пуста
func (s *userService) EnsureBootstrapAdmin(ctx context.Context, telegramID int64) error {
	if telegramID == 0 {
		return nil
	}
	total, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if total > 0 {
		return nil
	}
	_, err = s.repo.CreateIfAbsent(ctx, &models.User{
		TelegramID: telegramID,
		FullName:   "Bootstrap Admin",
		Role:       models.RoleAdmin,
	})
	if err != nil {
		return apperrors.NewDatabaseError("bootstrap admin", err)
	}
	logger.Info().Int64("telegram_id", telegramID).Msg("Bootstrap admin seeded")
	return nil
}
