package jobs

import (
	"context"
	"log/slog"
	"time"

	horoscopeUsecase "github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope"
)

const expiryReminderPushName = "expiry-reminder-push"

// ExpiryReminderPush джоба предупреждений о скором истечении подписки
type ExpiryReminderPush struct {
	horoscopeService *horoscopeUsecase.Service
	interval         time.Duration
	log              *slog.Logger
}

func NewExpiryReminderPush(
	horoscopeService *horoscopeUsecase.Service,
	interval time.Duration,
	log *slog.Logger,
) *ExpiryReminderPush {
	return &ExpiryReminderPush{
		horoscopeService: horoscopeService,
		interval:         interval,
		log:              log,
	}
}

func (j *ExpiryReminderPush) Name() string {
	return expiryReminderPushName
}

func (j *ExpiryReminderPush) Interval() time.Duration {
	return j.interval
}

// Run напоминает о скором истечении подписки
func (j *ExpiryReminderPush) Run(ctx context.Context) error {
	_, err := j.horoscopeService.SendExpiryReminders(ctx)
	return err
}
