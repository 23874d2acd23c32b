package userRepo

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

type userColumns struct {
	TableName      string
	ID             string
	TelegramUserID string
	TelegramChatID string
	FirstName      string
	Username       string
	BirthDate      string
	BirthTime      string
	BirthPlace     string
	LivingPlace    string
	Language       string
	UTCOffset      string
	NotifyHourUTC  string
	CreatedAt      string
	UpdatedAt      string
	LastSeenAt     string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns userColumns
}

// New создаёт новый репозиторий для работы с профилями пользователей
func New(db persistence.Persistence, log *slog.Logger) ports.IUserRepo {
	cols := userColumns{
		TableName:      "tg_users",
		ID:             "id",
		TelegramUserID: "tg_id",
		TelegramChatID: "chat_id",
		FirstName:      "first_name",
		Username:       "username",
		BirthDate:      "birth_date",
		BirthTime:      "birth_time",
		BirthPlace:     "birth_place",
		LivingPlace:    "living_place",
		Language:       "language",
		UTCOffset:      "utc_offset",
		NotifyHourUTC:  "notify_hour_utc",
		CreatedAt:      "created_at",
		UpdatedAt:      "updated_at",
		LastSeenAt:     "last_seen_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// allColumns возвращает строку со всеми колонками (15 колонок)
func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.TelegramUserID,
		r.columns.TelegramChatID,
		r.columns.FirstName,
		r.columns.Username,
		r.columns.BirthDate,
		r.columns.BirthTime,
		r.columns.BirthPlace,
		r.columns.LivingPlace,
		r.columns.Language,
		r.columns.UTCOffset,
		r.columns.NotifyHourUTC,
		r.columns.CreatedAt,
		r.columns.UpdatedAt,
		r.columns.LastSeenAt)
}

// Create создаёт нового пользователя
func (r *Repository) Create(ctx context.Context, user *domain.User) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		user.ID,
		user.TelegramUserID,
		user.TelegramChatID,
		user.FirstName,
		user.Username,
		user.BirthDate,
		user.BirthTime,
		user.BirthPlace,
		user.LivingPlace,
		user.Language,
		user.UTCOffset,
		user.NotifyHourUTC,
		user.CreatedAt,
		user.UpdatedAt,
		user.LastSeenAt)
	if err != nil {
		r.Log.Error("failed to create user",
			"error", err,
			"telegram_user_id", user.TelegramUserID,
			"user_id", user.ID)
		return fmt.Errorf("failed to create user: %w", err)
	}
	r.Log.Debug("user created successfully",
		"id", user.ID,
		"telegram_user_id", user.TelegramUserID)
	return nil
}

// GetByID получает пользователя по внутреннему ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	err := r.db.Get(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.Log.Error("failed to get user by id",
			"error", err,
			"user_id", id)
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *Repository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var user domain.User
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.TelegramUserID)
	err := r.db.Get(ctx, &user, query, telegramID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.Log.Error("failed to get user by telegram id",
			"error", err,
			"telegram_user_id", telegramID)
		return nil, fmt.Errorf("failed to get user by telegram id: %w", err)
	}
	return &user, nil
}

// List возвращает всех пользователей (для свипов генерации и рассылок)
func (r *Repository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.CreatedAt)
	if err := r.db.Select(ctx, &users, query); err != nil {
		r.Log.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update обновляет изменяемые поля профиля (язык, часовой пояс, час уведомления)
func (r *Repository) Update(ctx context.Context, user *domain.User) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = $4, %s = NOW() WHERE %s = $5`,
		r.columns.TableName,
		r.columns.Language,
		r.columns.UTCOffset,
		r.columns.NotifyHourUTC,
		r.columns.LivingPlace,
		r.columns.UpdatedAt,
		r.columns.ID)
	err := r.db.Exec(ctx, query,
		user.Language,
		user.UTCOffset,
		user.NotifyHourUTC,
		user.LivingPlace,
		user.ID)
	if err != nil {
		r.Log.Error("failed to update user",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdateLastSeen обновляет время последней активности пользователя
func (r *Repository) UpdateLastSeen(ctx context.Context, userID uuid.UUID) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`,
		r.columns.TableName,
		r.columns.LastSeenAt,
		r.columns.ID)
	if err := r.db.Exec(ctx, query, time.Now().UTC(), userID); err != nil {
		r.Log.Error("failed to update last seen",
			"error", err,
			"user_id", userID)
		return fmt.Errorf("failed to update last seen: %w", err)
	}
	return nil
}
