package jobs

import (
	"context"
	"log/slog"
	"time"

	horoscopeUsecase "github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope"
)

const expiredNotificationPushName = "expired-notification-push"

// ExpiredNotificationPush джоба закрытия просроченных подписок и
// уведомления их владельцев
type ExpiredNotificationPush struct {
	horoscopeService *horoscopeUsecase.Service
	interval         time.Duration
	log              *slog.Logger
}

func NewExpiredNotificationPush(
	horoscopeService *horoscopeUsecase.Service,
	interval time.Duration,
	log *slog.Logger,
) *ExpiredNotificationPush {
	return &ExpiredNotificationPush{
		horoscopeService: horoscopeService,
		interval:         interval,
		log:              log,
	}
}

func (j *ExpiredNotificationPush) Name() string {
	return expiredNotificationPushName
}

func (j *ExpiredNotificationPush) Interval() time.Duration {
	return j.interval
}

// Run переводит просроченные подписки в expired и уведомляет владельцев
func (j *ExpiredNotificationPush) Run(ctx context.Context) error {
	_, err := j.horoscopeService.SendExpiredNotifications(ctx)
	return err
}
