package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"log/slog"
)

const (
	telegramAPIBaseURL = "https://api.telegram.org/bot"
	apiTimeout         = 30 * time.Second
)

// Client клиент для работы с Telegram Bot API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        *slog.Logger
}

// NewClient создаёт новый клиент для Telegram Bot API
func NewClient(token string, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: apiTimeout,
		},
		baseURL: telegramAPIBaseURL + token,
		token:   token,
		log:     log,
	}
}

// SendMessageRequest запрос на отправку сообщения
type SendMessageRequest struct {
	ChatID      int64                  `json:"chat_id"`
	Text        string                 `json:"text"`
	ParseMode   string                 `json:"parse_mode,omitempty"`
	ReplyMarkup map[string]interface{} `json:"reply_markup,omitempty"`
}

// SendMessageResult результат отправки сообщения
type SendMessageResult struct {
	MessageID int64 `json:"message_id"`
	Chat      struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	Text string `json:"text"`
	Date int64  `json:"date"`
}

// SendMessageResponse ответ от Telegram API
type SendMessageResponse struct {
	APIResponse
	Result SendMessageResult `json:"result"`
}

// SendMessage отправляет текстовое сообщение, возвращает message_id
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) (int64, error) {
	req := SendMessageRequest{
		ChatID: chatID,
		Text:   text,
	}

	return c.sendMessage(ctx, req)
}

// SendMessageWithKeyboard отправляет сообщение с inline клавиатурой
func (c *Client) SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard map[string]interface{}) (int64, error) {
	req := SendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	}

	return c.sendMessage(ctx, req)
}

// sendMessage выполняет запрос к Telegram API для отправки сообщения
func (c *Client) sendMessage(ctx context.Context, req SendMessageRequest) (int64, error) {
	var apiResp SendMessageResponse
	if err := c.call(ctx, "sendMessage", req, &apiResp); err != nil {
		c.log.Error("failed to send message",
			"error", err,
			"chat_id", req.ChatID,
		)
		return 0, err
	}

	return apiResp.Result.MessageID, nil
}

// editMessageRequest запрос на редактирование сообщения
type editMessageRequest struct {
	ChatID      int64                  `json:"chat_id"`
	MessageID   int64                  `json:"message_id"`
	Text        string                 `json:"text"`
	ReplyMarkup map[string]interface{} `json:"reply_markup,omitempty"`
}

// EditMessageText редактирует текст отправленного сообщения
func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int64, text string, keyboard map[string]interface{}) error {
	req := editMessageRequest{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: keyboard,
	}

	var apiResp APIResponse
	if err := c.call(ctx, "editMessageText", req, &apiResp); err != nil {
		c.log.Error("failed to edit message",
			"error", err,
			"chat_id", chatID,
			"message_id", messageID,
		)
		return err
	}
	return nil
}

// deleteMessageRequest запрос на удаление сообщения
type deleteMessageRequest struct {
	ChatID    int64 `json:"chat_id"`
	MessageID int64 `json:"message_id"`
}

// DeleteMessage удаляет сообщение
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int64) error {
	req := deleteMessageRequest{
		ChatID:    chatID,
		MessageID: messageID,
	}

	var apiResp APIResponse
	if err := c.call(ctx, "deleteMessage", req, &apiResp); err != nil {
		c.log.Error("failed to delete message",
			"error", err,
			"chat_id", chatID,
			"message_id", messageID,
		)
		return err
	}
	return nil
}

// reactionRequest запрос на установку реакции
type reactionRequest struct {
	ChatID    int64               `json:"chat_id"`
	MessageID int64               `json:"message_id"`
	Reaction  []map[string]string `json:"reaction"`
}

// SetMessageReaction ставит emoji-реакцию на сообщение
func (c *Client) SetMessageReaction(ctx context.Context, chatID int64, messageID int64, emoji string) error {
	req := reactionRequest{
		ChatID:    chatID,
		MessageID: messageID,
		Reaction: []map[string]string{
			{"type": "emoji", "emoji": emoji},
		},
	}

	var apiResp APIResponse
	if err := c.call(ctx, "setMessageReaction", req, &apiResp); err != nil {
		c.log.Error("failed to set message reaction",
			"error", err,
			"chat_id", chatID,
			"message_id", messageID,
		)
		return err
	}
	return nil
}

// apiResult общий интерфейс ответов API для проверки флага ok
type apiResult interface {
	ok() bool
	describe() (int, string)
}

func (r *APIResponse) ok() bool                { return r.OK }
func (r *APIResponse) describe() (int, string) { return r.ErrorCode, r.Description }
func (r *SendMessageResponse) ok() bool        { return r.OK }
func (r *SendMessageResponse) describe() (int, string) {
	return r.ErrorCode, r.Description
}

// call выполняет POST-запрос к методу Bot API и разбирает ответ
func (c *Client) call(ctx context.Context, method string, payload interface{}, out apiResult) error {
	url := c.baseURL + "/" + method

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to telegram: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response [status=%d]: %w", resp.StatusCode, err)
	}

	if !out.ok() {
		code, description := out.describe()
		return fmt.Errorf("telegram API error [method=%s, code=%d]: %s", method, code, description)
	}

	return nil
}
