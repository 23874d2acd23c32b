package jobs

import (
	"context"
	"log/slog"
	"time"

	horoscopeUsecase "github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope"
)

const dailyNotificationPushName = "daily-notification-push"

// DailyNotificationPush джоба доставки дневных гороскопов подписчикам,
// у которых наступил час уведомления
type DailyNotificationPush struct {
	horoscopeService *horoscopeUsecase.Service
	interval         time.Duration
	log              *slog.Logger
}

func NewDailyNotificationPush(
	horoscopeService *horoscopeUsecase.Service,
	interval time.Duration,
	log *slog.Logger,
) *DailyNotificationPush {
	return &DailyNotificationPush{
		horoscopeService: horoscopeService,
		interval:         interval,
		log:              log,
	}
}

func (j *DailyNotificationPush) Name() string {
	return dailyNotificationPushName
}

func (j *DailyNotificationPush) Interval() time.Duration {
	return j.interval
}

// Run доставляет сегодняшние гороскопы; повторная доставка исключена
// отметкой sent_at, так что частый интервал безопасен
func (j *DailyNotificationPush) Run(ctx context.Context) error {
	_, err := j.horoscopeService.SendDailyNotifications(ctx)
	return err
}
