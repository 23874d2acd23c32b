package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sgavka/mystic-bots-sub000/internal/domain"
)

// ISubscriptionRepo интерфейс для работы с подписками
type ISubscriptionRepo interface {
	Create(ctx context.Context, subscription *domain.Subscription) error
	// GetActiveByUserID возвращает domain.ErrNotFound, если активной подписки нет
	GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error)
	// GetLatestByUserID последняя по началу подписка в любом статусе
	GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error)
	// Renew продлевает активную подписку in-place и сбрасывает reminder_sent_at
	Renew(ctx context.Context, id uuid.UUID, expiresAt time.Time, paymentRef *string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubscriptionStatus) error
	// ExpireOverdue переводит все активные подписки с expires_at <= now в expired
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	// GetExpiringSoon активные подписки, истекающие в пределах окна, без отметки о напоминании
	GetExpiringSoon(ctx context.Context, now time.Time, within time.Duration) ([]domain.Subscription, error)
	// GetRecentlyExpiredUnnotified истёкшие подписки без отметки об уведомлении
	GetRecentlyExpiredUnnotified(ctx context.Context) ([]domain.Subscription, error)
	MarkReminded(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error)
}
