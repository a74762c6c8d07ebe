package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	apperrors "concierge-bot/internal/common/errors"
	"concierge-bot/internal/common/logger"
	"concierge-bot/internal/common/validation"
	"concierge-bot/internal/features/order/models"
	"concierge-bot/internal/features/order/repository"
)

const maxCodeAttempts = 10

var (
	ErrOrderNotFound   = apperrors.New(apperrors.ErrCodeOrderNotFound, "order not found")
	ErrCodeExhausted   = apperrors.New(apperrors.ErrCodeInternal, "could not allocate a free tracking code")
	codeSpace          = big.NewInt(1_000_000)
	defaultCodeSource  = randomCode
	errInvalidStatuses = apperrors.NewValidationError("statuses", "at least one status is required")
)

// CodeSource выдаёт кандидата в коды отслеживания.
type CodeSource func() (string, error)

// Ledger хранилище заказов и свободных заявок.
type Ledger interface {
	// Create сохраняет заказ. Пустой TrackingCode заполняется свободным кодом;
	// при гонке за код попытка повторяется с новым.
	Create(ctx context.Context, order *models.Order) error
	NewTrackingCode(ctx context.Context) (string, error)
	FindByCode(ctx context.Context, userID int64, code string) (*models.Order, error)
	FindByCodeGlobal(ctx context.Context, code string) (*models.Order, error)
	ListByStatuses(ctx context.Context, userID int64, statuses []string) ([]*models.Order, error)
	ListByStatusesGlobal(ctx context.Context, statuses []string) ([]*models.Order, error)
	CountByStatusesAndItem(ctx context.Context, statuses []string, itemLabel string) (int64, error)
	ListByStatusesAndItemPaged(ctx context.Context, statuses []string, itemLabel string, offset, limit int) ([]*models.Order, error)
	// SetStatus возвращает false, если заказа с таким кодом нет.
	SetStatus(ctx context.Context, code, status string) (bool, error)
	CreateCustomRequest(ctx context.Context, req *models.CustomRequest) error
}

type ledger struct {
	repo  repository.OrderRepository
	codes CodeSource
}

type Option func(*ledger)

func WithCodeSource(src CodeSource) Option {
	return func(l *ledger) { l.codes = src }
}

func NewLedger(repo repository.OrderRepository, opts ...Option) Ledger {
	l := &ledger{repo: repo, codes: defaultCodeSource}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (l *ledger) NewTrackingCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := l.codes()
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "generate tracking code")
		}
		exists, err := l.repo.CodeExists(ctx, code)
		if err != nil {
			return "", apperrors.NewDatabaseError("check tracking code", err)
		}
		if !exists {
			return code, nil
		}
		logger.Debug().Str("code", code).Int("attempt", attempt+1).Msg("Tracking code collision")
	}
	return "", ErrCodeExhausted
}

func (l *ledger) Create(ctx context.Context, order *models.Order) error {
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	generated := order.TrackingCode == ""
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		if generated {
			code, err := l.NewTrackingCode(ctx)
			if err != nil {
				return err
			}
			order.TrackingCode = code
		}
		err := l.repo.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateTracking) {
			return apperrors.NewDatabaseError("create order", err)
		}
		if !generated {
			return apperrors.Wrap(err, apperrors.ErrCodeValidation, "tracking code already used").
				WithDetail("tracking_code", order.TrackingCode)
		}
	}
	return ErrCodeExhausted
}

func (l *ledger) FindByCode(ctx context.Context, userID int64, code string) (*models.Order, error) {
	return l.find(ctx, &userID, code)
}

func (l *ledger) FindByCodeGlobal(ctx context.Context, code string) (*models.Order, error) {
	return l.find(ctx, nil, code)
}

func (l *ledger) find(ctx context.Context, userID *int64, code string) (*models.Order, error) {
	order, err := l.repo.FindByCode(ctx, userID, code)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, apperrors.NewDatabaseError("find order", err)
	}
	return order, nil
}

func (l *ledger) ListByStatuses(ctx context.Context, userID int64, statuses []string) ([]*models.Order, error) {
	if len(statuses) == 0 {
		return nil, errInvalidStatuses
	}
	return l.list(ctx, models.Filter{UserID: &userID, Statuses: statuses}, 0, 0)
}

func (l *ledger) ListByStatusesGlobal(ctx context.Context, statuses []string) ([]*models.Order, error) {
	if len(statuses) == 0 {
		return nil, errInvalidStatuses
	}
	return l.list(ctx, models.Filter{Statuses: statuses}, 0, 0)
}

func (l *ledger) CountByStatusesAndItem(ctx context.Context, statuses []string, itemLabel string) (int64, error) {
	total, err := l.repo.Count(ctx, models.Filter{Statuses: statuses, ItemLabel: itemLabel})
	if err != nil {
		return 0, apperrors.NewDatabaseError("count orders", err)
	}
	return total, nil
}

func (l *ledger) ListByStatusesAndItemPaged(ctx context.Context, statuses []string, itemLabel string, offset, limit int) ([]*models.Order, error) {
	return l.list(ctx, models.Filter{Statuses: statuses, ItemLabel: itemLabel}, offset, limit)
}

func (l *ledger) list(ctx context.Context, f models.Filter, offset, limit int) ([]*models.Order, error) {
	orders, err := l.repo.List(ctx, f, offset, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list orders", err)
	}
	return orders, nil
}

func (l *ledger) SetStatus(ctx context.Context, code, status string) (bool, error) {
	status, err := validation.ValidateStatus(status)
	if err != nil {
		return false, apperrors.NewValidationError("status", err.Error())
	}
	ok, err := l.repo.UpdateStatus(ctx, code, status)
	if err != nil {
		return false, apperrors.NewDatabaseError("set order status", err)
	}
	if ok {
		logger.Info().Str("tracking_code", code).Str("status", status).Msg("Order status changed")
	}
	return ok, nil
}

func (l *ledger) CreateCustomRequest(ctx context.Context, req *models.CustomRequest) error {
	if err := l.repo.CreateCustomRequest(ctx, req); err != nil {
		return apperrors.NewDatabaseError("create custom request", err)
	}
	return nil
}
