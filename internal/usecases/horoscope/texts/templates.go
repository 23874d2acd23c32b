package texts

import (
	"fmt"
	"time"
)

// Шаблоны сообщений бота. Генератор собирает полный текст гороскопа из
// заголовка и пулов фраз; детерминированность обеспечивает вызывающая сторона

const (
	// FullFooter приписка к полному тексту для подписчиков
	FullFooter = "💬 Хочешь разобрать день подробнее — просто напиши мне!"

	// TeaserCTA призыв к подписке под тизером
	TeaserCTA = "🔒 Это только начало прогноза. Оформи подписку, чтобы читать его целиком каждый день!"

	// EllipsisMarker маркер обрезанного текста
	EllipsisMarker = "…"

	// SubscribeButtonText текст inline-кнопки подписки
	SubscribeButtonText = "✨ Оформить подписку"

	// SubscriptionExpiredNotice уведомление об истёкшей подписке
	SubscriptionExpiredNotice = "🌙 Твоя подписка закончилась. Звёзды продолжают говорить — продли подписку, чтобы снова читать полный прогноз!"
)

// FormatDailyHeader заголовок ежедневного гороскопа
func FormatDailyHeader(firstName string, date time.Time, signTitle string) string {
	return fmt.Sprintf("✨ %s, твой гороскоп на %s\n♈ Знак: %s", firstName, date.Format("02.01.2006"), signTitle)
}

// FormatWelcomeHeader заголовок первого гороскопа после онбординга
func FormatWelcomeHeader(firstName string, signTitle string) string {
	return fmt.Sprintf("🎉 %s, добро пожаловать! Я составила твой первый гороскоп.\n♈ Знак: %s", firstName, signTitle)
}

// FormatExpiryReminder напоминание о скором истечении подписки
func FormatExpiryReminder(daysLeft int) string {
	switch daysLeft {
	case 0:
		return "⏳ Подписка истекает сегодня! Продли её, чтобы не пропустить завтрашний прогноз."
	case 1:
		return "⏳ Подписка истекает завтра. Продли её, чтобы звёзды не замолчали!"
	default:
		return fmt.Sprintf("⏳ Подписка истекает через %d дн. Продли её, чтобы звёзды не замолчали!", daysLeft)
	}
}

// Themes пул тем дня
var Themes = []string{
	"Сегодня энергия дня благоволит новым начинаниям — не откладывай задуманное.",
	"День подходит для спокойных решений: не торопись и слушай интуицию.",
	"Вселенная подталкивает тебя к общению — неожиданный разговор может всё изменить.",
	"Сегодня стоит навести порядок: в делах, мыслях и на рабочем столе.",
	"Энергия дня усиливает творческое начало — дай идеям выйти наружу.",
	"Хороший день для заботы о себе: тело подскажет, чего ему не хватает.",
	"Финансовые вопросы сегодня решаются легче обычного — используй момент.",
	"День испытывает твоё терпение, но награда за выдержку не заставит ждать.",
}

// Advices пул советов
var Advices = []string{
	"Совет дня: скажи «да» тому, что давно откладывал.",
	"Совет дня: не принимай близко к сердцу чужие слова — они о них, не о тебе.",
	"Совет дня: выдели полчаса на тишину без телефона.",
	"Совет дня: заверши одно маленькое дело до конца — это запустит цепочку удач.",
	"Совет дня: спроси совета у того, кому доверяешь.",
	"Совет дня: сделай шаг навстречу первым — инициатива сегодня вознаграждается.",
	"Совет дня: запиши три вещи, за которые благодарен этому дню.",
}

// Affirmations пул аффирмаций
var Affirmations = []string{
	"Аффирмация: «Я доверяю своему пути и иду по нему уверенно».",
	"Аффирмация: «Я притягиваю то, что мне действительно нужно».",
	"Аффирмация: «Мои решения ведут меня к лучшей версии себя».",
	"Аффирмация: «Я спокоен внутри, что бы ни происходило снаружи».",
	"Аффирмация: «Каждый день открывает мне новые возможности».",
	"Аффирмация: «Я достоин любви, успеха и покоя».",
}

// Closings пул завершающих фраз
var Closings = []string{
	"Пусть день сложится наилучшим образом! 🌟",
	"Звёзды на твоей стороне — действуй! ✨",
	"Доверься течению дня и наслаждайся им. 🌙",
	"Сегодняшний день запомнится — сделай его своим. ☀️",
	"Лёгкого дня и ясных мыслей! 💫",
}
