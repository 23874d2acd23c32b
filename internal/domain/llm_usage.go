package domain

import (
	"time"

	"github.com/google/uuid"
)

// LLMUsage учёт токенов LLM-генерации, создаётся только когда текст
// гороскопа получен от провайдера, а не из шаблона
type LLMUsage struct {
	ID           uuid.UUID `json:"id" db:"id"`
	HoroscopeID  uuid.UUID `json:"horoscope_id" db:"horoscope_id"`
	Model        string    `json:"model" db:"model"`
	InputTokens  int       `json:"input_tokens" db:"input_tokens"`
	OutputTokens int       `json:"output_tokens" db:"output_tokens"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
