package jobs

import (
	"context"
	"log/slog"
	"time"

	horoscopeUsecase "github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope"
)

const generationSweepName = "generation-sweep"

// GenerationSweep джоба предгенерации дневных гороскопов для всех
// подходящих пользователей, чтобы час уведомления не упирался в LLM
type GenerationSweep struct {
	horoscopeService *horoscopeUsecase.Service
	interval         time.Duration
	log              *slog.Logger
}

func NewGenerationSweep(
	horoscopeService *horoscopeUsecase.Service,
	interval time.Duration,
	log *slog.Logger,
) *GenerationSweep {
	return &GenerationSweep{
		horoscopeService: horoscopeService,
		interval:         interval,
		log:              log,
	}
}

func (j *GenerationSweep) Name() string {
	return generationSweepName
}

func (j *GenerationSweep) Interval() time.Duration {
	return j.interval
}

// Run создаёт недостающие гороскопы на сегодня
func (j *GenerationSweep) Run(ctx context.Context) error {
	_, err := j.horoscopeService.GenerateDailyForAllUsers(ctx)
	return err
}
