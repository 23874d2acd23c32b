package horoscope

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sgavka/mystic-bots-sub000/internal/domain"
	"github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope/texts"
)

// sendPause пауза между отправками = ~10 RPS, безопасно для лимита Telegram в 30 RPS
const sendPause = 100 * time.Millisecond

// pace выдерживает паузу между отправками внутри свипа
func pace(ctx context.Context, i int) error {
	if i == 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(sendPause):
		return nil
	}
}

// GenerateDailyForAllUsers создаёт сегодняшние гороскопы для подписчиков и
// недавно активных пользователей; остальных пропускает целиком, чтобы не
// тратить токены и не спамить. Возвращает количество созданных гороскопов
func (s *Service) GenerateDailyForAllUsers(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	today := Today(now)

	users, err := s.UserRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("generation sweep: %w", err)
	}

	created := 0
	for i := range users {
		user := &users[i]

		hasActive, err := s.HasActive(ctx, user.ID)
		if err != nil {
			s.Log.Warn("failed to check subscription, skipping user",
				"error", err,
				"user_id", user.ID,
			)
			continue
		}

		if !hasActive && !user.IsRecentlyActive(now, s.Cfg.ActivityWindow) {
			continue
		}

		if _, err := s.HoroscopeRepo.GetByUserAndDate(ctx, user.ID, today); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.Log.Warn("failed to check existing horoscope, skipping user",
				"error", err,
				"user_id", user.ID,
			)
			continue
		}

		if _, err := s.EnsureHoroscope(ctx, user, today, domain.HoroscopeTypeDaily); err != nil {
			s.Log.Warn("failed to generate horoscope",
				"error", err,
				"user_id", user.ID,
			)
			continue
		}
		created++
	}

	if created > 0 {
		s.Log.Info("generation sweep completed", "created", created)
	}
	return created, nil
}

// SendDailyNotifications доставляет полный гороскоп подписчикам, чей час
// уведомления (UTC) уже наступил и сегодняшний гороскоп ещё не отправлен.
// Не-подписчиков обслуживает тизерный свип — здесь они пропускаются,
// чтобы не дублировать сообщения
func (s *Service) SendDailyNotifications(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	today := Today(now)

	users, err := s.UserRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("daily notification sweep: %w", err)
	}

	sent := 0
	for i := range users {
		user := &users[i]

		hasActive, err := s.HasActive(ctx, user.ID)
		if err != nil || !hasActive {
			continue
		}

		notifyHour := s.Cfg.DefaultNotifyHourUTC
		if user.NotifyHourUTC != nil {
			notifyHour = *user.NotifyHourUTC
		}
		if now.Hour() < notifyHour {
			continue
		}

		h, err := s.HoroscopeRepo.GetByUserAndDate(ctx, user.ID, today)
		if err != nil {
			// Нет гороскопа - создаст генерационный свип, доставим на следующем тике
			continue
		}
		if h.IsSent() {
			continue
		}

		if err := pace(ctx, sent); err != nil {
			return sent, err
		}

		if err := s.Deliver(ctx, user.ID, today, domain.HoroscopeTypeDaily); err != nil {
			// Бизнес-ошибки уже залогированы внутри Deliver
			if !domain.IsBusinessError(err) {
				s.Log.Warn("daily delivery failed",
					"error", err,
					"user_id", user.ID,
				)
			}
			continue
		}
		sent++
	}

	if sent > 0 {
		s.Log.Info("daily notification sweep completed", "sent", sent)
	}
	return sent, nil
}

// SendPeriodicTeasers отправляет тизер недавно активным не-подписчикам,
// которым давно ничего не доставлялось. Троттлинг выводится из sent_at
// гороскопов — отдельного счётчика нет
func (s *Service) SendPeriodicTeasers(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	today := Today(now)

	users, err := s.UserRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("periodic teaser sweep: %w", err)
	}

	sent := 0
	for i := range users {
		user := &users[i]

		hasActive, err := s.HasActive(ctx, user.ID)
		if err != nil || hasActive {
			continue
		}

		if !user.IsRecentlyActive(now, s.Cfg.ActivityWindow) {
			continue
		}

		lastSentAt, err := s.HoroscopeRepo.GetLastSentAt(ctx, user.ID)
		if err != nil {
			s.Log.Warn("failed to get last sent time, skipping user",
				"error", err,
				"user_id", user.ID,
			)
			continue
		}
		if lastSentAt != nil && now.Sub(*lastSentAt) < s.Cfg.TeaserInterval {
			continue
		}

		if err := pace(ctx, sent); err != nil {
			return sent, err
		}

		if err := s.Deliver(ctx, user.ID, today, domain.HoroscopeTypeDaily); err != nil {
			if !domain.IsBusinessError(err) {
				s.Log.Warn("teaser delivery failed",
					"error", err,
					"user_id", user.ID,
				)
			}
			continue
		}
		sent++
	}

	if sent > 0 {
		s.Log.Info("periodic teaser sweep completed", "sent", sent)
	}
	return sent, nil
}

// SendExpiryReminders предупреждает о скором истечении подписки; каждую
// подписку предупреждаем один раз — отметка reminder_sent_at
func (s *Service) SendExpiryReminders(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	expiring, err := s.SubscriptionRepo.GetExpiringSoon(ctx, now, s.Cfg.ExpiryReminderLead)
	if err != nil {
		return 0, fmt.Errorf("expiry reminder sweep: %w", err)
	}

	if len(expiring) == 0 {
		return 0, nil
	}

	reminded := s.notifySubscribers(ctx, expiring, func(sub *domain.Subscription) string {
		return texts.FormatExpiryReminder(sub.DaysLeft(now))
	})

	return reminded, nil
}

// SendExpiredNotifications сначала закрывает просроченные подписки, затем
// уведомляет владельцев только что истёкших; отметка reminder_sent_at
// гарантирует одно уведомление на переход
func (s *Service) SendExpiredNotifications(ctx context.Context) (int, error) {
	if _, err := s.ExpireOverdue(ctx); err != nil {
		return 0, fmt.Errorf("expired notification sweep: %w", err)
	}

	expired, err := s.SubscriptionRepo.GetRecentlyExpiredUnnotified(ctx)
	if err != nil {
		return 0, fmt.Errorf("expired notification sweep: %w", err)
	}

	if len(expired) == 0 {
		return 0, nil
	}

	notified := s.notifySubscribers(ctx, expired, func(*domain.Subscription) string {
		return texts.SubscriptionExpiredNotice
	})

	return notified, nil
}

// notifySubscribers рассылает сообщение владельцам подписок и помечает
// успешно уведомлённые записи
func (s *Service) notifySubscribers(ctx context.Context, subscriptions []domain.Subscription, message func(*domain.Subscription) string) int {
	now := time.Now().UTC()
	var remindedIDs []uuid.UUID

	for i := range subscriptions {
		sub := &subscriptions[i]

		user, err := s.UserRepo.GetByID(ctx, sub.UserID)
		if err != nil {
			s.Log.Warn("failed to get user for notification",
				"error", err,
				"user_id", sub.UserID,
			)
			continue
		}

		if err := pace(ctx, len(remindedIDs)); err != nil {
			break
		}

		if err := s.sendMessageWithKeyboard(ctx, user.TelegramChatID, message(sub), subscribeKeyboard()); err != nil {
			// Не помечаем - попробуем на следующем тике
			continue
		}
		remindedIDs = append(remindedIDs, sub.ID)
	}

	if len(remindedIDs) == 0 {
		return 0
	}

	if _, err := s.SubscriptionRepo.MarkReminded(ctx, remindedIDs, now); err != nil {
		s.Log.Error("failed to mark subscriptions reminded",
			"error", err,
			"count", len(remindedIDs),
		)
	}

	return len(remindedIDs)
}
