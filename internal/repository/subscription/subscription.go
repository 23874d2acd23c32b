package subscriptionRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/sgavka/mystic-bots-sub000/internal/domain"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/persistence"
	ports "github.com/sgavka/mystic-bots-sub000/internal/ports/repository"
)

type subscriptionColumns struct {
	TableName      string
	ID             string
	UserID         string
	Status         string
	StartedAt      string
	ExpiresAt      string
	PaymentRef     string
	ReminderSentAt string
	CreatedAt      string
	UpdatedAt      string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns subscriptionColumns
}

// New создаёт новый репозиторий для работы с подписками
func New(db persistence.Persistence, log *slog.Logger) ports.ISubscriptionRepo {
	cols := subscriptionColumns{
		TableName:      "subscriptions",
		ID:             "id",
		UserID:         "user_id",
		Status:         "status",
		StartedAt:      "started_at",
		ExpiresAt:      "expires_at",
		PaymentRef:     "payment_ref",
		ReminderSentAt: "reminder_sent_at",
		CreatedAt:      "created_at",
		UpdatedAt:      "updated_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками (9 колонок)
func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.UserID,
		r.columns.Status,
		r.columns.StartedAt,
		r.columns.ExpiresAt,
		r.columns.PaymentRef,
		r.columns.ReminderSentAt,
		r.columns.CreatedAt,
		r.columns.UpdatedAt)
}

// Create создаёт подписку. Частичный уникальный индекс в БД гарантирует
// не более одной активной записи на пользователя
func (r *Repository) Create(ctx context.Context, subscription *domain.Subscription) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		subscription.ID,
		subscription.UserID,
		subscription.Status,
		subscription.StartedAt,
		subscription.ExpiresAt,
		subscription.PaymentRef,
		subscription.ReminderSentAt,
		subscription.CreatedAt,
		subscription.UpdatedAt)
	if err != nil {
		r.Log.Error("failed to create subscription",
			"error", err,
			"user_id", subscription.UserID)
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	r.Log.Debug("subscription created successfully",
		"id", subscription.ID,
		"user_id", subscription.UserID)
	return nil
}

// GetActiveByUserID получает активную подписку пользователя
func (r *Repository) GetActiveByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	var subscription domain.Subscription
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.UserID,
		r.columns.Status)
	err := r.db.Get(ctx, &subscription, query, userID, domain.SubscriptionStatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.Log.Error("failed to get active subscription",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return &subscription, nil
}

// GetLatestByUserID получает последнюю по началу подписку в любом статусе
func (r *Repository) GetLatestByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	var subscription domain.Subscription
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC LIMIT 1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.UserID,
		r.columns.StartedAt)
	err := r.db.Get(ctx, &subscription, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.Log.Error("failed to get latest subscription",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to get latest subscription: %w", err)
	}
	return &subscription, nil
}

// Renew продлевает подписку in-place: новый expires_at, сброс reminder_sent_at
func (r *Repository) Renew(ctx context.Context, id uuid.UUID, expiresAt time.Time, paymentRef *string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = COALESCE($2, %s), %s = NULL, %s = NOW() WHERE %s = $3`,
		r.columns.TableName,
		r.columns.ExpiresAt,
		r.columns.PaymentRef,
		r.columns.PaymentRef,
		r.columns.ReminderSentAt,
		r.columns.UpdatedAt,
		r.columns.ID)
	if err := r.db.Exec(ctx, query, expiresAt, paymentRef, id); err != nil {
		r.Log.Error("failed to renew subscription",
			"error", err,
			"subscription_id", id)
		return fmt.Errorf("failed to renew subscription: %w", err)
	}
	return nil
}

// UpdateStatus меняет статус подписки
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SubscriptionStatus) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = $2`,
		r.columns.TableName,
		r.columns.Status,
		r.columns.UpdatedAt,
		r.columns.ID)
	if err := r.db.Exec(ctx, query, status, id); err != nil {
		r.Log.Error("failed to update subscription status",
			"error", err,
			"subscription_id", id,
			"status", status)
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	return nil
}

// ExpireOverdue переводит просроченные активные подписки в expired, возвращает
// количество затронутых строк; повторный вызов безопасен
func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	// Сбрасываем reminder_sent_at: уведомление об истечении - отдельная фаза
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NULL, %s = NOW() WHERE %s = $2 AND %s IS NOT NULL AND %s <= $3`,
		r.columns.TableName,
		r.columns.Status,
		r.columns.ReminderSentAt,
		r.columns.UpdatedAt,
		r.columns.Status,
		r.columns.ExpiresAt,
		r.columns.ExpiresAt)
	affected, err := r.db.ExecWithResult(ctx, query,
		domain.SubscriptionStatusExpired,
		domain.SubscriptionStatusActive,
		now)
	if err != nil {
		r.Log.Error("failed to expire overdue subscriptions", "error", err)
		return 0, fmt.Errorf("failed to expire overdue subscriptions: %w", err)
	}
	return affected, nil
}

// GetExpiringSoon активные подписки, истекающие в пределах окна, ещё без напоминания
func (r *Repository) GetExpiringSoon(ctx context.Context, now time.Time, within time.Duration) ([]domain.Subscription, error) {
	var subscriptions []domain.Subscription
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL AND %s > $2 AND %s <= $3`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.Status,
		r.columns.ReminderSentAt,
		r.columns.ExpiresAt,
		r.columns.ExpiresAt)
	err := r.db.Select(ctx, &subscriptions, query,
		domain.SubscriptionStatusActive,
		now,
		now.Add(within))
	if err != nil {
		r.Log.Error("failed to get expiring soon subscriptions", "error", err)
		return nil, fmt.Errorf("failed to get expiring soon subscriptions: %w", err)
	}
	return subscriptions, nil
}

// GetRecentlyExpiredUnnotified истёкшие подписки без отметки об уведомлении
func (r *Repository) GetRecentlyExpiredUnnotified(ctx context.Context) ([]domain.Subscription, error) {
	var subscriptions []domain.Subscription
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.Status,
		r.columns.ReminderSentAt)
	err := r.db.Select(ctx, &subscriptions, query, domain.SubscriptionStatusExpired)
	if err != nil {
		r.Log.Error("failed to get recently expired subscriptions", "error", err)
		return nil, fmt.Errorf("failed to get recently expired subscriptions: %w", err)
	}
	return subscriptions, nil
}

// MarkReminded проставляет отметку об отправленном напоминании
func (r *Repository) MarkReminded(ctx context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NOW() WHERE %s = ANY($2)`,
		r.columns.TableName,
		r.columns.ReminderSentAt,
		r.columns.UpdatedAt,
		r.columns.ID)
	affected, err := r.db.ExecWithResult(ctx, query, at, ids)
	if err != nil {
		r.Log.Error("failed to mark subscriptions reminded",
			"error", err,
			"count", len(ids))
		return 0, fmt.Errorf("failed to mark subscriptions reminded: %w", err)
	}
	return affected, nil
}
