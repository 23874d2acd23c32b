package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/sgavka/mystic-bots-sub000/internal/ports/service"
)

const completionsEndpoint = "chat/completions"

// truncateString обрезает строку до указанной длины
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Client клиент LLM-провайдера (OpenAI-совместимый chat/completions API)
type Client struct {
	cfg        *Config
	HTTPClient *http.Client
	Log        *slog.Logger
}

// NewClient создаёт новый клиент LLM-провайдера
func NewClient(cfg *Config, log *slog.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg: cfg,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Log: log,
	}
}

// buildURL собирает полный URL endpoint'а
func (c *Client) buildURL() string {
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + completionsEndpoint
}

// Complete генерирует текст по промпту, возвращает текст и расход токенов
func (c *Client) Complete(ctx context.Context, prompt string) (*service.Completion, error) {
	req := completionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens: c.cfg.MaxTokens,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create completion request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call llm provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read llm response: %w", err)
	}

	rawJSON := string(body)

	if resp.StatusCode != http.StatusOK {
		c.Log.Debug("llm provider returned non-200 status",
			"status_code", resp.StatusCode,
			"body_preview", truncateString(rawJSON, 200),
		)
		return nil, fmt.Errorf("llm provider error [status=%d]: %s", resp.StatusCode, truncateString(rawJSON, 500))
	}

	var completionResp completionResponse
	if err := json.Unmarshal(body, &completionResp); err != nil {
		c.Log.Debug("failed to unmarshal llm response",
			"error", err,
			"body_preview", truncateString(rawJSON, 200),
		)
		return nil, fmt.Errorf("llm response unmarshal failed: %w", err)
	}

	if completionResp.Error != nil {
		return nil, fmt.Errorf("llm provider error [type=%s]: %s", completionResp.Error.Type, completionResp.Error.Message)
	}

	if len(completionResp.Choices) == 0 || strings.TrimSpace(completionResp.Choices[0].Message.Content) == "" {
		return nil, fmt.Errorf("llm provider returned empty completion")
	}

	model := completionResp.Model
	if model == "" {
		model = c.cfg.Model
	}

	return &service.Completion{
		Text:         strings.TrimSpace(completionResp.Choices[0].Message.Content),
		Model:        model,
		InputTokens:  completionResp.Usage.PromptTokens,
		OutputTokens: completionResp.Usage.CompletionTokens,
	}, nil
}
