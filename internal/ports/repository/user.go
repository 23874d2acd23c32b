package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sgavka/mystic-bots-sub000/internal/domain"
)

// IUserRepo интерфейс для работы с профилями пользователей
type IUserRepo interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateLastSeen(ctx context.Context, userID uuid.UUID) error
}
