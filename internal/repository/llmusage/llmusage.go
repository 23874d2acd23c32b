package llmUsageRepo

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/sgavka/mystic-bots-sub000/internal/domain"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/persistence"
	ports "github.com/sgavka/mystic-bots-sub000/internal/ports/repository"
)

type usageColumns struct {
	TableName    string
	ID           string
	HoroscopeID  string
	Model        string
	InputTokens  string
	OutputTokens string
	CreatedAt    string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns usageColumns
}

// New создаёт новый репозиторий для учёта токенов LLM
func New(db persistence.Persistence, log *slog.Logger) ports.ILLMUsageRepo {
	cols := usageColumns{
		TableName:    "llm_usage",
		ID:           "id",
		HoroscopeID:  "horoscope_id",
		Model:        "model",
		InputTokens:  "input_tokens",
		OutputTokens: "output_tokens",
		CreatedAt:    "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

// CreateTx записывает использование токенов LLM-генерации в транзакции
func (r *Repository) CreateTx(ctx context.Context, tx persistence.Transaction, usage *domain.LLMUsage) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		r.columns.TableName,
		r.columns.ID,
		r.columns.HoroscopeID,
		r.columns.Model,
		r.columns.InputTokens,
		r.columns.OutputTokens,
		r.columns.CreatedAt)
	err := tx.Exec(ctx, query,
		usage.ID,
		usage.HoroscopeID,
		usage.Model,
		usage.InputTokens,
		usage.OutputTokens,
		usage.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create llm usage",
			"error", err,
			"horoscope_id", usage.HoroscopeID)
		return fmt.Errorf("failed to create llm usage: %w", err)
	}
	return nil
}
