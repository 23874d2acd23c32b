package horoscope

import (
	"context"
	"testing"
	"time"

	"github.com/sgavka/mystic-bots-sub000/internal/domain"
	"github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope/texts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) markSeen(t *testing.T, user *domain.User, at time.Time) {
	t.Helper()
	user.LastSeenAt = &at
	require.NoError(t, e.users.Update(context.Background(), user))
}

func TestGenerateDailyForAllUsers(t *testing.T) {
	env := newTestEnv()
	now := time.Now().UTC()

	subscriber := env.addUser(testBirthDate, now)
	env.activateSubscription(t, subscriber.ID)

	recent := env.addUser(testBirthDate, now)
	env.markSeen(t, recent, now.Add(-time.Hour))

	// Давно не появлялся и без подписки - генерация не тратится
	stale := env.addUser(testBirthDate, now.Add(-60*24*time.Hour))
	env.markSeen(t, stale, now.Add(-30*24*time.Hour))

	created, err := env.service.GenerateDailyForAllUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	_, err = env.repo.GetByUserAndDate(context.Background(), stale.ID, Today(now))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Повторный проход ничего не создаёт
	created, err = env.service.GenerateDailyForAllUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestSendDailyNotifications(t *testing.T) {
	env := newTestEnv()
	now := time.Now().UTC()

	subscriber := env.addUser(testBirthDate, now)
	env.activateSubscription(t, subscriber.ID)

	// Без подписки дневной свип не трогает
	env.addUser(testBirthDate, now)

	sent, err := env.service.SendDailyNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, env.telegram.sentCount())

	// Второй тик того же дня - sent_at уже стоит
	sent, err = env.service.SendDailyNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, 1, env.telegram.sentCount())
}

func TestSendDailyNotificationsHonorsNotifyHour(t *testing.T) {
	env := newTestEnv()
	now := time.Now().UTC()

	due := env.addUser(testBirthDate, now)
	dueHour := now.Hour()
	due.NotifyHourUTC = &dueHour
	require.NoError(t, env.users.Update(context.Background(), due))
	env.activateSubscription(t, due.ID)

	notYet := env.addUser(testBirthDate, now)
	laterHour := now.Hour() + 1
	notYet.NotifyHourUTC = &laterHour
	require.NoError(t, env.users.Update(context.Background(), notYet))
	env.activateSubscription(t, notYet.ID)

	sent, err := env.service.SendDailyNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, due.TelegramChatID, env.telegram.lastMessage().ChatID)
}

func TestSendPeriodicTeasers(t *testing.T) {
	env := newTestEnv()
	now := time.Now().UTC()

	recent := env.addUser(testBirthDate, now)
	env.markSeen(t, recent, now.Add(-time.Hour))

	subscriber := env.addUser(testBirthDate, now)
	env.markSeen(t, subscriber, now.Add(-time.Hour))
	env.activateSubscription(t, subscriber.ID)

	stale := env.addUser(testBirthDate, now.Add(-60*24*time.Hour))
	env.markSeen(t, stale, now.Add(-30*24*time.Hour))

	sent, err := env.service.SendPeriodicTeasers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent, "only the recently active non-subscriber gets a teaser")

	msg := env.telegram.lastMessage()
	assert.Equal(t, recent.TelegramChatID, msg.ChatID)
	assert.Contains(t, msg.Text, texts.TeaserCTA)

	// Троттлинг: свежая доставка блокирует следующую
	sent, err = env.service.SendPeriodicTeasers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, 1, env.telegram.sentCount())
}

func TestSendExpiryReminders(t *testing.T) {
	env := newTestEnv()
	now := time.Now().UTC()

	user := env.addUser(testBirthDate, now)
	sub := env.activateSubscription(t, user.ID)
	require.NoError(t, env.subs.Renew(context.Background(), sub.ID, now.Add(36*time.Hour), nil))

	reminded, err := env.service.SendExpiryReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reminded)

	msg := env.telegram.lastMessage()
	assert.Equal(t, texts.FormatExpiryReminder(1), msg.Text)
	assert.NotNil(t, msg.Keyboard)

	// Повторный проход не дублирует напоминание
	reminded, err = env.service.SendExpiryReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, reminded)
}

func TestSendExpiryRemindersSkipsOnTransportFailure(t *testing.T) {
	env := newTestEnv()
	now := time.Now().UTC()

	user := env.addUser(testBirthDate, now)
	sub := env.activateSubscription(t, user.ID)
	require.NoError(t, env.subs.Renew(context.Background(), sub.ID, now.Add(36*time.Hour), nil))

	env.telegram.failAll = true
	reminded, err := env.service.SendExpiryReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, reminded)

	// Отметки нет - следующий тик попробует снова
	env.telegram.failAll = false
	reminded, err = env.service.SendExpiryReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reminded)
}

func TestSendExpiredNotifications(t *testing.T) {
	env := newTestEnv()
	now := time.Now().UTC()

	user := env.addUser(testBirthDate, now)
	sub := env.activateSubscription(t, user.ID)
	require.NoError(t, env.subs.Renew(context.Background(), sub.ID, now.Add(-time.Hour), nil))

	notified, err := env.service.SendExpiredNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, notified)
	assert.Equal(t, texts.SubscriptionExpiredNotice, env.telegram.lastMessage().Text)

	hasActive, err := env.service.HasActive(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, hasActive)

	// Уведомление об истечении приходит один раз
	notified, err = env.service.SendExpiredNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, notified)
}
