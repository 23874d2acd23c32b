package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus статус подписки
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription подписка пользователя
// Инвариант: у пользователя не более одной записи со статусом active,
// продление меняет ExpiresAt той же записи. ReminderSentAt помечает, что
// уведомление о текущей фазе жизненного цикла (скоро истечёт / истекла)
// уже отправлено; продление сбрасывает флаг
type Subscription struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	UserID         uuid.UUID          `json:"user_id" db:"user_id"`
	Status         SubscriptionStatus `json:"status" db:"status"`
	StartedAt      time.Time          `json:"started_at" db:"started_at"`
	ExpiresAt      *time.Time         `json:"expires_at,omitempty" db:"expires_at"`
	PaymentRef     *string            `json:"payment_ref,omitempty" db:"payment_ref"`
	ReminderSentAt *time.Time         `json:"reminder_sent_at,omitempty" db:"reminder_sent_at"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

// IsActiveAt действует ли подписка в момент now
func (s *Subscription) IsActiveAt(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	if s.ExpiresAt == nil {
		return true
	}
	return s.ExpiresAt.After(now)
}

// DaysLeft сколько полных дней осталось до истечения (0, если уже истекла)
func (s *Subscription) DaysLeft(now time.Time) int {
	if s.ExpiresAt == nil {
		return 0
	}
	left := s.ExpiresAt.Sub(now)
	if left <= 0 {
		return 0
	}
	return int(left.Hours() / 24)
}
