package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	server "github.com/sgavka/mystic-bots-sub000/internal/adapters/primary/http"
	adminController "github.com/sgavka/mystic-bots-sub000/internal/adapters/primary/http/controllers/admin"
	healthcheckController "github.com/sgavka/mystic-bots-sub000/internal/adapters/primary/http/controllers/healthcheck"
	"github.com/sgavka/mystic-bots-sub000/internal/adapters/primary/http/middlewares"
	alerterAdapter "github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/kafka"
	llmAdapter "github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/llm"
	"github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/storage/redis"
	tgAdapter "github.com/sgavka/mystic-bots-sub000/internal/adapters/secondary/telegram"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/cache"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/events"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/repository"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/service"
	horoscopeRepo "github.com/sgavka/mystic-bots-sub000/internal/repository/horoscope"
	llmUsageRepo "github.com/sgavka/mystic-bots-sub000/internal/repository/llmusage"
	subscriptionRepo "github.com/sgavka/mystic-bots-sub000/internal/repository/subscription"
	userRepo "github.com/sgavka/mystic-bots-sub000/internal/repository/user"
	alerterService "github.com/sgavka/mystic-bots-sub000/internal/services/alerter"
	jobScheduler "github.com/sgavka/mystic-bots-sub000/internal/services/jobs"
	horoscopeUsecase "github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope"
)

type Dependencies struct {
	DB            *sqlx.DB
	HTTPServer    *http.Server
	EventProducer events.IProducer
	Cache         cache.Cache
	JobScheduler  *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	db, err := a.initPostgres()
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	repos := a.initRepositories(db)
	external := a.initExternalServices()

	telegramClient := tgAdapter.NewClient(a.Cfg.Telegram.BotToken, a.Log)

	horoscopeService := horoscopeUsecase.New(
		repos.User,
		repos.Horoscope,
		repos.Subscription,
		repos.Usage,
		telegramClient,
		external.LLM,
		external.EventProducer,
		external.Cache,
		a.Cfg.Horoscope.ToUsecaseConfig(),
		a.Log,
	)

	httpServer := a.initHTTP(db, horoscopeService)
	scheduler := a.initJobScheduler(horoscopeService, external.Alerter)

	return &Dependencies{
		DB:            db,
		HTTPServer:    httpServer,
		EventProducer: external.EventProducer,
		Cache:         external.Cache,
		JobScheduler:  scheduler,
	}, nil
}

// repositories содержит инициализированные репозитории
type repositories struct {
	User         repository.IUserRepo
	Horoscope    repository.IHoroscopeRepo
	Subscription repository.ISubscriptionRepo
	Usage        repository.ILLMUsageRepo
}

// initRepositories инициализирует репозитории для работы с БД
func (a *App) initRepositories(db *sqlx.DB) *repositories {
	persistenceLayer := pg.NewDB(db)
	return &repositories{
		User:         userRepo.New(persistenceLayer, a.Log),
		Horoscope:    horoscopeRepo.New(persistenceLayer, a.Log),
		Subscription: subscriptionRepo.New(persistenceLayer, a.Log),
		Usage:        llmUsageRepo.New(persistenceLayer, a.Log),
	}
}

// externalServices внешние сервисы; все опциональные - без них бот
// работает на шаблонах и без событий
type externalServices struct {
	LLM           service.ILLMService
	Alerter       service.IAlerterService
	Cache         cache.Cache
	EventProducer events.IProducer
}

// initExternalServices инициализирует опциональные внешние сервисы
func (a *App) initExternalServices() *externalServices {
	external := &externalServices{}

	if a.Cfg.LLM.IsConfigured() {
		external.LLM = llmAdapter.NewClient(a.Cfg.LLM, a.Log)
		a.Log.Info("llm provider configured", "model", a.Cfg.LLM.Model)
	} else {
		a.Log.Warn("llm provider not configured, using template generation only")
	}

	if a.Cfg.Alerter != nil && a.Cfg.Alerter.BotToken != "" {
		external.Alerter = alerterService.New(alerterAdapter.NewClient(a.Cfg.Alerter, a.Log))
		a.Log.Info("alerter configured")
	}

	if a.Cfg.Redis != nil && a.Cfg.Redis.Host != "" {
		redisClient, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			a.Log.Warn("failed to connect to redis, cache disabled", "error", err)
		} else {
			external.Cache = redisAdapter.NewClient(redisClient)
			a.Log.Info("redis cache connected")
		}
	}

	if a.Cfg.Kafka.IsConfigured() {
		producer, err := kafkaAdapter.NewProducer(a.Cfg.Kafka, a.Log)
		if err != nil {
			a.Log.Warn("failed to init kafka producer, delivery events disabled", "error", err)
		} else {
			external.EventProducer = producer
			a.Log.Info("kafka producer connected", "topic", a.Cfg.Kafka.Topic)
		}
	}

	return external
}

// initHTTP собирает HTTP сервер со всеми контроллерами
func (a *App) initHTTP(db *sqlx.DB, horoscopeService *horoscopeUsecase.Service) *http.Server {
	middlewareList := []gin.HandlerFunc{
		middlewares.RecoveryLogger(a.Log),
	}
	if a.Cfg.Server.EnableLoggingMiddleware {
		middlewareList = append(middlewareList, middlewares.RequestLogger(a.Log))
	}

	healthCheck := healthcheckController.New(db, a.Log)
	admin := adminController.New(horoscopeService, a.Log)

	return server.NewHTTPServer(a.Cfg.Server, a.Log, middlewareList, healthCheck, admin)
}

// initJobScheduler регистрирует все периодические джобы
func (a *App) initJobScheduler(horoscopeService *horoscopeUsecase.Service, alerter service.IAlerterService) *jobScheduler.Scheduler {
	scheduler := jobScheduler.NewScheduler(a.Log, alerter)

	scheduler.Register(jobScheduler.NewGenerationSweep(horoscopeService, a.Cfg.Jobs.GenerationInterval, a.Log))
	scheduler.Register(jobScheduler.NewDailyNotificationPush(horoscopeService, a.Cfg.Jobs.DailyNotificationInterval, a.Log))
	scheduler.Register(jobScheduler.NewPeriodicTeaserPush(horoscopeService, a.Cfg.Jobs.PeriodicTeaserInterval, a.Log))
	scheduler.Register(jobScheduler.NewExpiryReminderPush(horoscopeService, a.Cfg.Jobs.ExpiryReminderInterval, a.Log))
	scheduler.Register(jobScheduler.NewExpiredNotificationPush(horoscopeService, a.Cfg.Jobs.ExpiredNotificationInterval, a.Log))

	return scheduler
}
