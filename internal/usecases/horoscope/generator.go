package horoscope

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/sgavka/mystic-bots-sub000/internal/domain"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/service"
	"github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope/texts"
)

const llmCacheTTL = 48 * time.Hour

// GeneratedContent три варианта текста гороскопа и учёт токенов,
// если текст сгенерирован LLM (nil для шаблонного пути)
type GeneratedContent struct {
	FullText           string
	TeaserText         string
	ExtendedTeaserText string
	Usage              *service.Completion
}

// Generate создаёт контент гороскопа для пользователя на дату.
// Сначала пробует LLM (если настроен), при любой ошибке провайдера молча
// откатывается на детерминированный шаблон. Ничего не сохраняет —
// get-or-create обеспечивает вызывающая сторона
func (s *Service) Generate(ctx context.Context, user *domain.User, targetDate time.Time, horoscopeType domain.HoroscopeType) (*GeneratedContent, error) {
	if user == nil {
		return nil, fmt.Errorf("generate: user profile is required")
	}

	sign := domain.ZodiacSignForDate(user.BirthDate)
	header := s.header(user, targetDate, sign, horoscopeType)

	body, usage := s.generateBody(ctx, user, targetDate, sign)

	full := header + "\n\n" + body
	teaser := deriveTeaser(full, s.Cfg.TeaserLines)
	extended := deriveTeaser(full, s.Cfg.ExtendedTeaserLines)

	return &GeneratedContent{
		FullText:           full,
		TeaserText:         teaser,
		ExtendedTeaserText: extended,
		Usage:              usage,
	}, nil
}

// header заголовок гороскопа: приветственный для первого, обычный для ежедневного
func (s *Service) header(user *domain.User, targetDate time.Time, sign domain.ZodiacSign, horoscopeType domain.HoroscopeType) string {
	if horoscopeType == domain.HoroscopeTypeFirst {
		return texts.FormatWelcomeHeader(user.FirstName, sign.Title())
	}
	return texts.FormatDailyHeader(user.FirstName, targetDate, sign.Title())
}

// generateBody тело гороскопа: LLM с кэшом по (знак, дата, язык) либо шаблон
func (s *Service) generateBody(ctx context.Context, user *domain.User, targetDate time.Time, sign domain.ZodiacSign) (string, *service.Completion) {
	if s.LLMService == nil {
		return s.templateBody(user.ID.String(), targetDate, sign), nil
	}

	cacheKey := fmt.Sprintf("llm:daily:%s:%s:%s", sign, targetDate.Format("2006-01-02"), user.Language)
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, cacheKey); err == nil && cached != "" {
			return cached, nil
		}
	}

	completion, err := s.LLMService.Complete(ctx, s.buildPrompt(user, targetDate, sign))
	if err != nil {
		// Ошибка провайдера не должна дойти до пользователя
		s.Log.Warn("llm generation failed, falling back to template",
			"error", err,
			"user_id", user.ID,
			"target_date", targetDate.Format("2006-01-02"),
		)
		return s.templateBody(user.ID.String(), targetDate, sign), nil
	}

	body := normalizeBody(completion.Text)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, cacheKey, body, llmCacheTTL); err != nil {
			s.Log.Warn("failed to cache llm text", "error", err, "key", cacheKey)
		}
	}

	return body, completion
}

// buildPrompt промпт для LLM-провайдера
func (s *Service) buildPrompt(user *domain.User, targetDate time.Time, sign domain.ZodiacSign) string {
	var b strings.Builder
	b.WriteString("Составь тёплый ежедневный гороскоп на ")
	b.WriteString(targetDate.Format("02.01.2006"))
	b.WriteString(" для знака ")
	b.WriteString(sign.Title())
	b.WriteString(". 4-6 коротких абзацев: тема дня, совет, аффирмация, завершение. ")
	b.WriteString("Без заголовка и обращения по имени. Язык: ")
	if user.Language != "" {
		b.WriteString(user.Language)
	} else {
		b.WriteString("ru")
	}
	if user.LivingPlace != "" {
		b.WriteString(". Читатель живёт в: ")
		b.WriteString(user.LivingPlace)
	}
	return b.String()
}

// templateBody детерминированное тело гороскопа: одинаковые (пользователь,
// дата) всегда дают байт-в-байт одинаковый текст
func (s *Service) templateBody(userID string, targetDate time.Time, sign domain.ZodiacSign) string {
	rng := rand.New(rand.NewSource(contentSeed(userID, targetDate)))

	lines := []string{
		texts.Themes[rng.Intn(len(texts.Themes))],
		texts.Advices[rng.Intn(len(texts.Advices))],
		texts.Affirmations[rng.Intn(len(texts.Affirmations))],
		texts.Closings[rng.Intn(len(texts.Closings))],
	}

	return strings.Join(lines, "\n")
}

// contentSeed seed генератора из (user_id, target_date)
func contentSeed(userID string, targetDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(userID))
	h.Write([]byte("|"))
	h.Write([]byte(targetDate.Format("2006-01-02")))
	return int64(h.Sum64())
}

// normalizeBody убирает лишние пустые строки и пробелы по краям
func normalizeBody(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return strings.Join(out, "\n")
}
