package domain

import "time"

// Tier уровень доступа к тексту гороскопа
type Tier string

const (
	TierFull           Tier = "full"
	TierTeaser         Tier = "teaser"
	TierExtendedTeaser Tier = "extended_teaser"
)

// ResolveTier определяет уровень доступа пользователя в момент now.
// Активная подписка даёт полный текст. Иначе возраст считается от более
// позднего из: создания профиля и истечения последней подписки; пока возраст
// не превышает phase1Window (граница включительно) — короткий тизер,
// дальше — расширенный
func ResolveTier(profileCreatedAt time.Time, latest *Subscription, now time.Time, phase1Window time.Duration) Tier {
	if latest != nil && latest.IsActiveAt(now) {
		return TierFull
	}

	reference := profileCreatedAt
	if latest != nil && latest.ExpiresAt != nil && latest.ExpiresAt.After(reference) {
		reference = *latest.ExpiresAt
	}

	if now.Sub(reference) <= phase1Window {
		return TierTeaser
	}
	return TierExtendedTeaser
}
