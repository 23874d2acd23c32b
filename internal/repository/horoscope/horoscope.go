package horoscopeRepo

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

type horoscopeColumns struct {
	TableName          string
	ID                 string
	UserID             string
	Type               string
	TargetDate         string
	FullText           string
	TeaserText         string
	ExtendedTeaserText string
	SentAt             string
	FailedToSendAt     string
	CreatedAt          string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns horoscopeColumns
}

// New создаёт новый репозиторий для работы с гороскопами
func New(db persistence.Persistence, log *slog.Logger) ports.IHoroscopeRepo {
	cols := horoscopeColumns{
		TableName:          "horoscopes",
		ID:                 "id",
		UserID:             "user_id",
		Type:               "type",
		TargetDate:         "target_date",
		FullText:           "full_text",
		TeaserText:         "teaser_text",
		ExtendedTeaserText: "extended_teaser_text",
		SentAt:             "sent_at",
		FailedToSendAt:     "failed_to_send_at",
		CreatedAt:          "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками (10 колонок)
func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.UserID,
		r.columns.Type,
		r.columns.TargetDate,
		r.columns.FullText,
		r.columns.TeaserText,
		r.columns.ExtendedTeaserText,
		r.columns.SentAt,
		r.columns.FailedToSendAt,
		r.columns.CreatedAt)
}

// WithTransaction выполняет функцию в транзакции с автоматическим commit/rollback
func (r *Repository) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	return r.db.WithTransaction(ctx, fn)
}

// CreateTx создаёт гороскоп в транзакции. Уникальность (user_id, target_date)
// обеспечивает constraint в БД: параллельная вставка на ту же дату вернёт ошибку
func (r *Repository) CreateTx(ctx context.Context, tx persistence.Transaction, horoscope *domain.Horoscope) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.columns.TableName,
		r.allColumns())
	err := tx.Exec(ctx, query,
		horoscope.ID,
		horoscope.UserID,
		horoscope.Type,
		horoscope.TargetDate,
		horoscope.FullText,
		horoscope.TeaserText,
		horoscope.ExtendedTeaserText,
		horoscope.SentAt,
		horoscope.FailedToSendAt,
		horoscope.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create horoscope",
			"error", err,
			"user_id", horoscope.UserID,
			"target_date", horoscope.TargetDate.Format("2006-01-02"))
		return fmt.Errorf("failed to create horoscope: %w", err)
	}
	r.Log.Debug("horoscope created successfully",
		"id", horoscope.ID,
		"user_id", horoscope.UserID,
		"type", horoscope.Type)
	return nil
}

// GetByID получает гороскоп по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Horoscope, error) {
	var horoscope domain.Horoscope
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	err := r.db.Get(ctx, &horoscope, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.Log.Error("failed to get horoscope by id",
			"error", err,
			"horoscope_id", id)
		return nil, fmt.Errorf("failed to get horoscope by id: %w", err)
	}
	return &horoscope, nil
}

// GetByUserAndDate получает гороскоп пользователя на дату
func (r *Repository) GetByUserAndDate(ctx context.Context, userID uuid.UUID, targetDate time.Time) (*domain.Horoscope, error) {
	var horoscope domain.Horoscope
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.UserID,
		r.columns.TargetDate)
	err := r.db.Get(ctx, &horoscope, query, userID, targetDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.Log.Error("failed to get horoscope by user and date",
			"error", err,
			"user_id", userID,
			"target_date", targetDate.Format("2006-01-02"))
		return nil, fmt.Errorf("failed to get horoscope by user and date: %w", err)
	}
	return &horoscope, nil
}

// MarkSent помечает гороскоп доставленным и снимает маркер неудачи
func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = NULL WHERE %s = $2`,
		r.columns.TableName,
		r.columns.SentAt,
		r.columns.FailedToSendAt,
		r.columns.ID)
	if err := r.db.Exec(ctx, query, sentAt, id); err != nil {
		r.Log.Error("failed to mark horoscope sent",
			"error", err,
			"horoscope_id", id)
		return fmt.Errorf("failed to mark horoscope sent: %w", err)
	}
	return nil
}

// MarkFailed помечает неудачную попытку доставки
func (r *Repository) MarkFailed(ctx context.Context, id uuid.UUID, failedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2 AND %s IS NULL`,
		r.columns.TableName,
		r.columns.FailedToSendAt,
		r.columns.ID,
		r.columns.SentAt)
	if err := r.db.Exec(ctx, query, failedAt, id); err != nil {
		r.Log.Error("failed to mark horoscope failed",
			"error", err,
			"horoscope_id", id)
		return fmt.Errorf("failed to mark horoscope failed: %w", err)
	}
	return nil
}

// GetLastSentAt время последней успешной доставки пользователю (nil — не было)
func (r *Repository) GetLastSentAt(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	var lastSent sql.NullTime
	query := fmt.Sprintf(`SELECT MAX(%s) FROM %s WHERE %s = $1`,
		r.columns.SentAt,
		r.columns.TableName,
		r.columns.UserID)
	err := r.db.Get(ctx, &lastSent, query, userID)
	if err != nil {
		r.Log.Error("failed to get last sent at",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to get last sent at: %w", err)
	}
	if !lastSent.Valid {
		return nil, nil
	}
	return &lastSent.Time, nil
}
