package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeliveryOutcome исход попытки доставки гороскопа
type DeliveryOutcome string

const (
	DeliveryOutcomeSent   DeliveryOutcome = "sent"
	DeliveryOutcomeFailed DeliveryOutcome = "failed"
)

// DeliveryEvent событие доставки для внешней аналитики
type DeliveryEvent struct {
	HoroscopeID uuid.UUID       `json:"horoscope_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Type        HoroscopeType   `json:"type"`
	TargetDate  string          `json:"target_date"` // YYYY-MM-DD
	Tier        Tier            `json:"tier"`
	Outcome     DeliveryOutcome `json:"outcome"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
