package app

import (
	"time"

	server "github.com/sgavka/mystic-bots-sub000/internal/adapters/primary/http"
	alerterAdapter "github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/kafka"
	llmAdapter "github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/llm"
	"github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/storage/redis"
	"github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/telegram"
	"github.com/sgavka/mystic-bots-sub000/internal/pkg/logger"
	horoscopeUsecase "github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Postgres  *pg.Config             `envconfig:"POSTGRES"`
	Log       *logger.Config         `envconfig:"LOG"`
	Server    *server.Config         `envconfig:"APISERVER"`
	Telegram  *telegram.Config       `envconfig:"TELEGRAM"`
	LLM       *llmAdapter.Config     `envconfig:"LLM"`
	Redis     *redisAdapter.Config   `envconfig:"REDIS"`
	Kafka     *kafkaAdapter.Config   `envconfig:"KAFKA"`
	Alerter   *alerterAdapter.Config `envconfig:"ALERTER"`
	Horoscope HoroscopeConfig        `envconfig:"HOROSCOPE"`
	Jobs      JobsConfig             `envconfig:"JOBS"`
}

// HoroscopeConfig настройки бизнес-логики гороскопов
type HoroscopeConfig struct {
	Phase1WindowDays     int   `envconfig:"PHASE1_WINDOW_DAYS" default:"7"`
	ActivityWindowDays   int   `envconfig:"ACTIVITY_WINDOW_DAYS" default:"14"`
	TeaserIntervalDays   int   `envconfig:"TEASER_INTERVAL_DAYS" default:"3"`
	ExpiryReminderDays   int   `envconfig:"EXPIRY_REMINDER_DAYS" default:"3"`
	SubscriptionDays     int   `envconfig:"SUBSCRIPTION_DAYS" default:"30"`
	SubscriptionPrice    int64 `envconfig:"SUBSCRIPTION_PRICE" default:"150"`
	TeaserLines          int   `envconfig:"TEASER_LINES" default:"1"`
	ExtendedTeaserLines  int   `envconfig:"EXTENDED_TEASER_LINES" default:"2"`
	DefaultNotifyHourUTC int   `envconfig:"DEFAULT_NOTIFY_HOUR_UTC" default:"6"`
}

// ToUsecaseConfig переводит env-настройки в конфиг бизнес-логики
func (c *HoroscopeConfig) ToUsecaseConfig() horoscopeUsecase.Config {
	day := 24 * time.Hour
	return horoscopeUsecase.Config{
		Phase1Window:         time.Duration(c.Phase1WindowDays) * day,
		ActivityWindow:       time.Duration(c.ActivityWindowDays) * day,
		TeaserInterval:       time.Duration(c.TeaserIntervalDays) * day,
		ExpiryReminderLead:   time.Duration(c.ExpiryReminderDays) * day,
		SubscriptionDuration: time.Duration(c.SubscriptionDays) * day,
		SubscriptionPrice:    c.SubscriptionPrice,
		TeaserLines:          c.TeaserLines,
		ExtendedTeaserLines:  c.ExtendedTeaserLines,
		DefaultNotifyHourUTC: c.DefaultNotifyHourUTC,
	}
}

// JobsConfig интервалы периодических джоб
type JobsConfig struct {
	GenerationInterval          time.Duration `envconfig:"GENERATION_INTERVAL" default:"30m"`
	DailyNotificationInterval   time.Duration `envconfig:"DAILY_NOTIFICATION_INTERVAL" default:"10m"`
	PeriodicTeaserInterval      time.Duration `envconfig:"PERIODIC_TEASER_INTERVAL" default:"1h"`
	ExpiryReminderInterval      time.Duration `envconfig:"EXPIRY_REMINDER_INTERVAL" default:"6h"`
	ExpiredNotificationInterval time.Duration `envconfig:"EXPIRED_NOTIFICATION_INTERVAL" default:"1h"`
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
