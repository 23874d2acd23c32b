package horoscope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sgavka/mystic-bots-sub000/internal/domain"
)

// ActivateOrRenew активирует подписку или продлевает существующую активную
// in-place: инвариант «не более одной активной подписки» держится именно здесь.
// Продление сбрасывает отметку о напоминании, чтобы следующий цикл
// предупреждений отработал заново
func (s *Service) ActivateOrRenew(ctx context.Context, userID uuid.UUID, duration time.Duration, paymentRef *string) (*domain.Subscription, error) {
	now := time.Now().UTC()

	active, err := s.SubscriptionRepo.GetActiveByUserID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("activate or renew: %w", err)
	}

	if active != nil {
		base := now
		if active.ExpiresAt != nil && active.ExpiresAt.After(now) {
			base = *active.ExpiresAt
		}
		newExpiry := base.Add(duration)

		if err := s.SubscriptionRepo.Renew(ctx, active.ID, newExpiry, paymentRef); err != nil {
			return nil, fmt.Errorf("activate or renew: %w", err)
		}

		active.ExpiresAt = &newExpiry
		active.ReminderSentAt = nil
		if paymentRef != nil {
			active.PaymentRef = paymentRef
		}

		s.Log.Info("subscription renewed",
			"subscription_id", active.ID,
			"user_id", userID,
			"expires_at", newExpiry,
		)
		return active, nil
	}

	expiresAt := now.Add(duration)
	subscription := &domain.Subscription{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     domain.SubscriptionStatusActive,
		StartedAt:  now,
		ExpiresAt:  &expiresAt,
		PaymentRef: paymentRef,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.SubscriptionRepo.Create(ctx, subscription); err != nil {
		return nil, fmt.Errorf("activate or renew: %w", err)
	}

	s.Log.Info("subscription activated",
		"subscription_id", subscription.ID,
		"user_id", userID,
		"expires_at", expiresAt,
	)
	return subscription, nil
}

// Cancel отменяет активную подписку; false — если активной не было
func (s *Service) Cancel(ctx context.Context, userID uuid.UUID) (bool, error) {
	active, err := s.SubscriptionRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("cancel subscription: %w", err)
	}

	if err := s.SubscriptionRepo.UpdateStatus(ctx, active.ID, domain.SubscriptionStatusCancelled); err != nil {
		return false, fmt.Errorf("cancel subscription: %w", err)
	}

	s.Log.Info("subscription cancelled",
		"subscription_id", active.ID,
		"user_id", userID,
	)
	return true, nil
}

// ExpireOverdue переводит просроченные подписки в expired; безопасно вызывать
// повторно — второй вызов вернёт 0
func (s *Service) ExpireOverdue(ctx context.Context) (int64, error) {
	count, err := s.SubscriptionRepo.ExpireOverdue(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("expire overdue: %w", err)
	}

	if count > 0 {
		s.Log.Info("expired subscriptions swept", "count", count)
	}
	return count, nil
}

// HasActive есть ли у пользователя действующая подписка
func (s *Service) HasActive(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, err := s.SubscriptionRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("has active: %w", err)
	}
	return true, nil
}

// GetActive активная подписка пользователя или nil
func (s *Service) GetActive(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	active, err := s.SubscriptionRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active: %w", err)
	}
	return active, nil
}
