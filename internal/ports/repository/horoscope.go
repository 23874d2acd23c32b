package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sgavka/mystic-bots-sub000/internal/domain"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/persistence"
)

// IHoroscopeRepo интерфейс для работы с гороскопами
type IHoroscopeRepo interface {
	// WithTransaction выполняет fn в транзакции с автоматическим commit/rollback
	WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error
	// CreateTx создаёт гороскоп в транзакции
	CreateTx(ctx context.Context, tx persistence.Transaction, horoscope *domain.Horoscope) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Horoscope, error)
	// GetByUserAndDate возвращает domain.ErrNotFound, если гороскопа на дату нет
	GetByUserAndDate(ctx context.Context, userID uuid.UUID, targetDate time.Time) (*domain.Horoscope, error)
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, failedAt time.Time) error
	// GetLastSentAt время последней успешной доставки любому гороскопу пользователя,
	// nil — если пользователю ещё ничего не доставлялось
	GetLastSentAt(ctx context.Context, userID uuid.UUID) (*time.Time, error)
}
