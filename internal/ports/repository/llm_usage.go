package repository

import (
	"context"

	"github.com/sgavka/mystic-bots-sub000/internal/domain"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/persistence"
)

// ILLMUsageRepo интерфейс для учёта токенов LLM-генерации
type ILLMUsageRepo interface {
	// CreateTx записывает использование токенов в транзакции вместе с гороскопом
	CreateTx(ctx context.Context, tx persistence.Transaction, usage *domain.LLMUsage) error
}
