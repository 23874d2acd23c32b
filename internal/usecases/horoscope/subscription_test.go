package horoscope

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sgavka/mystic-bots-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivateOrRenewCreatesSingleActiveRow(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(testBirthDate, time.Now().UTC())

	first, err := env.service.ActivateOrRenew(context.Background(), user.ID, 30*24*time.Hour, nil)
	require.NoError(t, err)
	require.NotNil(t, first.ExpiresAt)
	assert.Equal(t, domain.SubscriptionStatusActive, first.Status)

	// Повторная оплата продлевает ту же запись, а не создаёт вторую
	second, err := env.service.ActivateOrRenew(context.Background(), user.ID, 30*24*time.Hour, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.ExpiresAt.After(*first.ExpiresAt), "renewal extends from current expiry")

	activeCount := 0
	for _, sub := range env.subs.subscriptions {
		if sub.Status == domain.SubscriptionStatusActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestActivateOrRenewExtendsFromExpiry(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(testBirthDate, time.Now().UTC())

	first, err := env.service.ActivateOrRenew(context.Background(), user.ID, 30*24*time.Hour, nil)
	require.NoError(t, err)

	second, err := env.service.ActivateOrRenew(context.Background(), user.ID, 30*24*time.Hour, nil)
	require.NoError(t, err)

	// Продление до истечения прибавляет срок к остатку
	expected := first.ExpiresAt.Add(30 * 24 * time.Hour)
	assert.WithinDuration(t, expected, *second.ExpiresAt, time.Second)
}

func TestActivateOrRenewClearsReminder(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(testBirthDate, time.Now().UTC())

	sub, err := env.service.ActivateOrRenew(context.Background(), user.ID, 24*time.Hour, nil)
	require.NoError(t, err)

	remindedAt := time.Now().UTC()
	_, err = env.subs.MarkReminded(context.Background(), []uuid.UUID{sub.ID}, remindedAt)
	require.NoError(t, err)

	renewed, err := env.service.ActivateOrRenew(context.Background(), user.ID, 30*24*time.Hour, nil)
	require.NoError(t, err)
	assert.Nil(t, renewed.ReminderSentAt, "renewal resets the reminder flag")

	stored, err := env.subs.GetActiveByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ReminderSentAt)
}

func TestCancel(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(testBirthDate, time.Now().UTC())

	cancelled, err := env.service.Cancel(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, cancelled, "nothing to cancel")

	env.activateSubscription(t, user.ID)

	cancelled, err = env.service.Cancel(context.Background(), user.ID)
	require.NoError(t, err)
	assert.True(t, cancelled)

	hasActive, err := env.service.HasActive(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, hasActive)
}

func TestExpireOverdueIsIdempotent(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(testBirthDate, time.Now().UTC())

	sub := env.activateSubscription(t, user.ID)

	// Сдвигаем истечение в прошлое
	past := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, env.subs.Renew(context.Background(), sub.ID, past, nil))

	count, err := env.service.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Второй проход ничего не находит
	count, err = env.service.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	hasActive, err := env.service.HasActive(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, hasActive)
}

func TestGetExpiringSoonCohort(t *testing.T) {
	env := newTestEnv()
	now := time.Now().UTC()

	soonUser := env.addUser(testBirthDate, now)
	soon := env.activateSubscription(t, soonUser.ID)
	require.NoError(t, env.subs.Renew(context.Background(), soon.ID, now.Add(24*time.Hour), nil))

	farUser := env.addUser(testBirthDate, now)
	far := env.activateSubscription(t, farUser.ID)
	require.NoError(t, env.subs.Renew(context.Background(), far.ID, now.Add(20*24*time.Hour), nil))

	remindedUser := env.addUser(testBirthDate, now)
	reminded := env.activateSubscription(t, remindedUser.ID)
	require.NoError(t, env.subs.Renew(context.Background(), reminded.ID, now.Add(24*time.Hour), nil))
	_, err := env.subs.MarkReminded(context.Background(), []uuid.UUID{reminded.ID}, now)
	require.NoError(t, err)

	cohort, err := env.subs.GetExpiringSoon(context.Background(), now, 3*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, cohort, 1)
	assert.Equal(t, soon.ID, cohort[0].ID)
}
