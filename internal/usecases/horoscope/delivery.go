package horoscope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sgavka/mystic-bots-sub000/internal/domain"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/persistence"
	"github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope/texts"
)

// Deliver доставляет гороскоп пользователю на дату: get-or-create контента,
// определение уровня доступа, отправка, отметка исхода.
// Идемпотентна: уже доставленный гороскоп повторно не отправляется.
// Ошибка транспорта фиксируется через failed_to_send_at и не пробрасывается —
// повтор произойдёт на следующем тике свипа. Ошибка возвращается только при
// проблемах целостности (нет профиля, недоступно хранилище)
func (s *Service) Deliver(ctx context.Context, userID uuid.UUID, targetDate time.Time, horoscopeType domain.HoroscopeType) error {
	user, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.Log.Error("user profile not found for delivery", "user_id", userID)
			return domain.WrapBusinessError(fmt.Errorf("deliver: user profile %s not found: %w", userID, err))
		}
		return fmt.Errorf("deliver: failed to get user: %w", err)
	}

	h, err := s.EnsureHoroscope(ctx, user, targetDate, horoscopeType)
	if err != nil {
		return fmt.Errorf("deliver: %w", err)
	}

	if h.IsSent() {
		s.Log.Debug("horoscope already sent, skipping",
			"horoscope_id", h.ID,
			"user_id", userID,
		)
		return nil
	}

	tier := s.resolveTierForUser(ctx, user, h)
	text, keyboard := s.composeMessage(h, tier)

	var sendErr error
	if keyboard != nil {
		sendErr = s.sendMessageWithKeyboard(ctx, user.TelegramChatID, text, keyboard)
	} else {
		sendErr = s.sendMessage(ctx, user.TelegramChatID, text)
	}

	now := time.Now().UTC()
	if sendErr != nil {
		if markErr := s.HoroscopeRepo.MarkFailed(ctx, h.ID, now); markErr != nil {
			s.Log.Error("failed to mark horoscope as failed",
				"error", markErr,
				"horoscope_id", h.ID,
			)
		}
		s.publishOutcome(ctx, h, tier, domain.DeliveryOutcomeFailed, now)
		// Транспортная ошибка уже залогирована и помечена, наверх не отдаём
		return nil
	}

	if err := s.HoroscopeRepo.MarkSent(ctx, h.ID, now); err != nil {
		s.Log.Error("failed to mark horoscope as sent",
			"error", err,
			"horoscope_id", h.ID,
		)
		return fmt.Errorf("deliver: failed to mark sent: %w", err)
	}

	s.publishOutcome(ctx, h, tier, domain.DeliveryOutcomeSent, now)

	s.Log.Info("horoscope delivered",
		"horoscope_id", h.ID,
		"user_id", userID,
		"type", h.Type,
		"tier", tier,
	)
	return nil
}

// EnsureHoroscope возвращает существующий гороскоп на дату или генерирует и
// сохраняет новый. Контент неизменяем: повторный вызов для той же пары
// (пользователь, дата) ничего не перегенерирует
func (s *Service) EnsureHoroscope(ctx context.Context, user *domain.User, targetDate time.Time, horoscopeType domain.HoroscopeType) (*domain.Horoscope, error) {
	existing, err := s.HoroscopeRepo.GetByUserAndDate(ctx, user.ID, targetDate)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to get horoscope: %w", err)
	}

	content, err := s.Generate(ctx, user, targetDate, horoscopeType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate horoscope: %w", err)
	}

	h := &domain.Horoscope{
		ID:                 uuid.New(),
		UserID:             user.ID,
		Type:               horoscopeType,
		TargetDate:         targetDate,
		FullText:           content.FullText,
		TeaserText:         content.TeaserText,
		ExtendedTeaserText: content.ExtendedTeaserText,
		CreatedAt:          time.Now().UTC(),
	}

	// Гороскоп и учёт токенов пишем в одной транзакции
	err = s.HoroscopeRepo.WithTransaction(ctx, func(ctx context.Context, tx persistence.Transaction) error {
		if err := s.HoroscopeRepo.CreateTx(ctx, tx, h); err != nil {
			return err
		}
		if content.Usage == nil {
			return nil
		}
		return s.UsageRepo.CreateTx(ctx, tx, &domain.LLMUsage{
			ID:           uuid.New(),
			HoroscopeID:  h.ID,
			Model:        content.Usage.Model,
			InputTokens:  content.Usage.InputTokens,
			OutputTokens: content.Usage.OutputTokens,
			CreatedAt:    time.Now().UTC(),
		})
	})
	if err != nil {
		// Гонка двух свипов: уникальный индекс отклонил вставку - читаем победителя
		if winner, getErr := s.HoroscopeRepo.GetByUserAndDate(ctx, user.ID, targetDate); getErr == nil {
			return winner, nil
		}
		return nil, fmt.Errorf("failed to create horoscope: %w", err)
	}

	return h, nil
}

// resolveTierForUser уровень доступа для доставки: первый гороскоп всегда
// полный, дальше решает политика по подписке и возрасту профиля
func (s *Service) resolveTierForUser(ctx context.Context, user *domain.User, h *domain.Horoscope) domain.Tier {
	if h.Type == domain.HoroscopeTypeFirst {
		return domain.TierFull
	}

	latest, err := s.SubscriptionRepo.GetLatestByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.Log.Warn("failed to get latest subscription, assuming no subscription",
			"error", err,
			"user_id", user.ID,
		)
	}

	return domain.ResolveTier(user.CreatedAt, latest, time.Now().UTC(), s.Cfg.Phase1Window)
}

// composeMessage текст и клавиатура для уровня доступа
func (s *Service) composeMessage(h *domain.Horoscope, tier domain.Tier) (string, map[string]interface{}) {
	if tier == domain.TierFull {
		return h.FullText + "\n\n" + texts.FullFooter, nil
	}

	return h.TextForTier(tier) + "\n\n" + texts.TeaserCTA, subscribeKeyboard()
}

// publishOutcome публикует событие доставки, если producer настроен
func (s *Service) publishOutcome(ctx context.Context, h *domain.Horoscope, tier domain.Tier, outcome domain.DeliveryOutcome, at time.Time) {
	if s.EventProducer == nil {
		return
	}

	event := domain.DeliveryEvent{
		HoroscopeID: h.ID,
		UserID:      h.UserID,
		Type:        h.Type,
		TargetDate:  h.TargetDate.Format("2006-01-02"),
		Tier:        tier,
		Outcome:     outcome,
		OccurredAt:  at,
	}

	if err := s.EventProducer.PublishDeliveryOutcome(ctx, event); err != nil {
		s.Log.Warn("failed to publish delivery event",
			"error", err,
			"horoscope_id", h.ID,
		)
	}
}
