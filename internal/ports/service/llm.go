package service

import "context"

// Completion результат генерации текста LLM-провайдером
type Completion struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
}

// ILLMService интерфейс для генерации текста через LLM-провайдера
type ILLMService interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)
}
