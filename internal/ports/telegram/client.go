package telegram

import (
	"context"
)

// IClient интерфейс для клиента Telegram API
type IClient interface {
	// SendMessage отправляет текст, возвращает message_id отправленного сообщения
	SendMessage(ctx context.Context, chatID int64, text string) (int64, error)
	SendMessageWithKeyboard(ctx context.Context, chatID int64, text string, keyboard map[string]interface{}) (int64, error)
	EditMessageText(ctx context.Context, chatID int64, messageID int64, text string, keyboard map[string]interface{}) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int64) error
	SetMessageReaction(ctx context.Context, chatID int64, messageID int64, emoji string) error
}
