package domain

import (
	"time"

	"github.com/google/uuid"
)

// HoroscopeType тип гороскопа
type HoroscopeType string

const (
	HoroscopeTypeDaily HoroscopeType = "daily" // регулярный ежедневный гороскоп
	HoroscopeTypeFirst HoroscopeType = "first" // приветственный гороскоп после онбординга
)

// IsValid проверяет, что тип гороскопа известен
func (t HoroscopeType) IsValid() bool {
	switch t {
	case HoroscopeTypeDaily, HoroscopeTypeFirst:
		return true
	}
	return false
}

// Horoscope гороскоп пользователя на конкретную дату
// Инвариант: на пару (user_id, target_date) существует не более одной записи,
// содержимое после создания неизменяемо. SentAt и FailedToSendAt — маркеры
// исхода доставки: повторная попытка может перевести failed -> sent
type Horoscope struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	UserID             uuid.UUID     `json:"user_id" db:"user_id"`
	Type               HoroscopeType `json:"type" db:"type"`
	TargetDate         time.Time     `json:"target_date" db:"target_date"` // дата без времени, UTC
	FullText           string        `json:"full_text" db:"full_text"`
	TeaserText         string        `json:"teaser_text" db:"teaser_text"`
	ExtendedTeaserText string        `json:"extended_teaser_text" db:"extended_teaser_text"`
	SentAt             *time.Time    `json:"sent_at,omitempty" db:"sent_at"`
	FailedToSendAt     *time.Time    `json:"failed_to_send_at,omitempty" db:"failed_to_send_at"`
	CreatedAt          time.Time     `json:"created_at" db:"created_at"`
}

// IsSent доставлен ли гороскоп
func (h *Horoscope) IsSent() bool {
	return h.SentAt != nil
}

// TextForTier возвращает текст гороскопа для уровня доступа
func (h *Horoscope) TextForTier(tier Tier) string {
	switch tier {
	case TierFull:
		return h.FullText
	case TierTeaser:
		return h.TeaserText
	case TierExtendedTeaser:
		return h.ExtendedTeaserText
	}
	return h.TeaserText
}
