package jobs

import (
	"context"
	"log/slog"
	"time"

	horoscopeUsecase "github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope"
)

const periodicTeaserPushName = "periodic-teaser-push"

// PeriodicTeaserPush джоба рассылки тизеров недавно активным
// пользователям без подписки
type PeriodicTeaserPush struct {
	horoscopeService *horoscopeUsecase.Service
	interval         time.Duration
	log              *slog.Logger
}

func NewPeriodicTeaserPush(
	horoscopeService *horoscopeUsecase.Service,
	interval time.Duration,
	log *slog.Logger,
) *PeriodicTeaserPush {
	return &PeriodicTeaserPush{
		horoscopeService: horoscopeService,
		interval:         interval,
		log:              log,
	}
}

func (j *PeriodicTeaserPush) Name() string {
	return periodicTeaserPushName
}

func (j *PeriodicTeaserPush) Interval() time.Duration {
	return j.interval
}

// Run рассылает тизеры тем, кому давно ничего не приходило
func (j *PeriodicTeaserPush) Run(ctx context.Context) error {
	_, err := j.horoscopeService.SendPeriodicTeasers(ctx)
	return err
}
