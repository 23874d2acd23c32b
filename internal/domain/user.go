package domain

import (
	"time"

	"github.com/google/uuid"
)

// User профиль пользователя бота, создаётся после завершения онбординга
type User struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	TelegramUserID int64      `json:"telegram_user_id" db:"tg_id"`
	TelegramChatID int64      `json:"telegram_chat_id" db:"chat_id"`
	FirstName      string     `json:"first_name" db:"first_name"`
	Username       *string    `json:"username,omitempty" db:"username"`
	BirthDate      time.Time  `json:"birth_date" db:"birth_date"`
	BirthTime      *string    `json:"birth_time,omitempty" db:"birth_time"` // "HH:MM", если пользователь его знает
	BirthPlace     string     `json:"birth_place" db:"birth_place"`
	LivingPlace    string     `json:"living_place" db:"living_place"`
	Language       string     `json:"language" db:"language"`
	UTCOffset      *string    `json:"utc_offset,omitempty" db:"utc_offset"`           // метка вида "UTC+3"
	NotifyHourUTC  *int       `json:"notify_hour_utc,omitempty" db:"notify_hour_utc"` // 0..23
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	LastSeenAt     *time.Time `json:"last_seen_at,omitempty" db:"last_seen_at"`
}

// IsRecentlyActive был ли пользователь активен в пределах окна активности
func (u *User) IsRecentlyActive(now time.Time, window time.Duration) bool {
	if u.LastSeenAt == nil {
		return false
	}
	return now.Sub(*u.LastSeenAt) <= window
}
