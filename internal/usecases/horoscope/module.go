package horoscope

import (
	"time"

	"log/slog"

	"github.com/sgavka/mystic-bots-sub000/internal/ports/cache"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/events"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/repository"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/service"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/telegram"
)

// Config настройки бизнес-логики: каждая опция управляет ровно одним
// решением в политиках ниже
type Config struct {
	Phase1Window         time.Duration // окно короткого тизера после регистрации/истечения
	ActivityWindow       time.Duration // окно «недавней активности» пользователя
	TeaserInterval       time.Duration // минимальный интервал между периодическими тизерами
	ExpiryReminderLead   time.Duration // за сколько предупреждать об истечении подписки
	SubscriptionDuration time.Duration // срок подписки при активации/продлении
	SubscriptionPrice    int64         // цена подписки в звёздах (для текстов)
	TeaserLines          int           // строк контента в коротком тизере
	ExtendedTeaserLines  int           // строк контента в расширенном тизере
	DefaultNotifyHourUTC int           // час отправки по UTC, если пользователь не выбрал свой
}

// Service бизнес-логика гороскоп-бота: генерация контента, жизненный цикл
// подписок, доставка и периодические рассылки
type Service struct {
	UserRepo         repository.IUserRepo
	HoroscopeRepo    repository.IHoroscopeRepo
	SubscriptionRepo repository.ISubscriptionRepo
	UsageRepo        repository.ILLMUsageRepo
	TelegramClient   telegram.IClient
	LLMService       service.ILLMService // может быть nil - работаем только по шаблонам
	EventProducer    events.IProducer    // может быть nil
	Cache            cache.Cache         // может быть nil
	Cfg              Config
	Log              *slog.Logger
}

// New создаёт новый сервис бизнес-логики гороскоп-бота
func New(
	userRepo repository.IUserRepo,
	horoscopeRepo repository.IHoroscopeRepo,
	subscriptionRepo repository.ISubscriptionRepo,
	usageRepo repository.ILLMUsageRepo,
	telegramClient telegram.IClient,
	llmService service.ILLMService,
	eventProducer events.IProducer,
	cacheClient cache.Cache,
	cfg Config,
	log *slog.Logger,
) *Service {
	return &Service{
		UserRepo:         userRepo,
		HoroscopeRepo:    horoscopeRepo,
		SubscriptionRepo: subscriptionRepo,
		UsageRepo:        usageRepo,
		TelegramClient:   telegramClient,
		LLMService:       llmService,
		EventProducer:    eventProducer,
		Cache:            cacheClient,
		Cfg:              cfg,
		Log:              log,
	}
}

// Today дата «сегодня» в UTC, обрезанная до дня
func Today(now time.Time) time.Time {
	utc := now.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
