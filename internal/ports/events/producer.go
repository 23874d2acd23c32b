package events

import (
	"context"

	"github.com/sgavka/mystic-bots-sub000/internal/domain"
)

// IProducer интерфейс для публикации событий доставки во внешнюю шину
type IProducer interface {
	PublishDeliveryOutcome(ctx context.Context, event domain.DeliveryEvent) error
	Close() error
}
