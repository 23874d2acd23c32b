package horoscope

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sgavka/mystic-bots-sub000/internal/domain"
	"github.com/sgavka/mystic-bots-sub000/internal/ports/persistence"
)

// fakeTx no-op транзакция: in-memory фейки пишут сразу в свои map
type fakeTx struct{}

func (fakeTx) Get(context.Context, interface{}, string, ...interface{}) error    { return nil }
func (fakeTx) Select(context.Context, interface{}, string, ...interface{}) error { return nil }
func (fakeTx) Exec(context.Context, string, ...interface{}) error                { return nil }
func (fakeTx) ExecWithResult(context.Context, string, ...interface{}) (int64, error) {
	return 0, nil
}
func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

// In-memory реализации портов для тестов бизнес-логики

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByTelegramID(_ context.Context, telegramID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.TelegramUserID == telegramID {
			u := user
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, user)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) UpdateLastSeen(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	now := time.Now().UTC()
	user.LastSeenAt = &now
	r.users[userID] = user
	return nil
}

type horoscopeKey struct {
	userID uuid.UUID
	date   string
}

type fakeHoroscopeRepo struct {
	mu         sync.Mutex
	horoscopes map[horoscopeKey]domain.Horoscope
	byID       map[uuid.UUID]horoscopeKey
}

func newFakeHoroscopeRepo() *fakeHoroscopeRepo {
	return &fakeHoroscopeRepo{
		horoscopes: make(map[horoscopeKey]domain.Horoscope),
		byID:       make(map[uuid.UUID]horoscopeKey),
	}
}

func hKey(userID uuid.UUID, targetDate time.Time) horoscopeKey {
	return horoscopeKey{userID: userID, date: targetDate.Format("2006-01-02")}
}

func (r *fakeHoroscopeRepo) WithTransaction(ctx context.Context, fn func(context.Context, persistence.Transaction) error) error {
	return fn(ctx, fakeTx{})
}

func (r *fakeHoroscopeRepo) CreateTx(_ context.Context, _ persistence.Transaction, h *domain.Horoscope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := hKey(h.UserID, h.TargetDate)
	if _, exists := r.horoscopes[key]; exists {
		return errors.New("duplicate key value violates unique constraint")
	}
	r.horoscopes[key] = *h
	r.byID[h.ID] = key
	return nil
}

func (r *fakeHoroscopeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Horoscope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	h := r.horoscopes[key]
	return &h, nil
}

func (r *fakeHoroscopeRepo) GetByUserAndDate(_ context.Context, userID uuid.UUID, targetDate time.Time) (*domain.Horoscope, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.horoscopes[hKey(userID, targetDate)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &h, nil
}

func (r *fakeHoroscopeRepo) MarkSent(_ context.Context, id uuid.UUID, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	h := r.horoscopes[key]
	h.SentAt = &sentAt
	h.FailedToSendAt = nil
	r.horoscopes[key] = h
	return nil
}

func (r *fakeHoroscopeRepo) MarkFailed(_ context.Context, id uuid.UUID, failedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	h := r.horoscopes[key]
	if h.SentAt == nil {
		h.FailedToSendAt = &failedAt
		r.horoscopes[key] = h
	}
	return nil
}

func (r *fakeHoroscopeRepo) GetLastSentAt(_ context.Context, userID uuid.UUID) (*time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var last *time.Time
	for key, h := range r.horoscopes {
		if key.userID != userID || h.SentAt == nil {
			continue
		}
		if last == nil || h.SentAt.After(*last) {
			sent := *h.SentAt
			last = &sent
		}
	}
	return last, nil
}

type fakeSubscriptionRepo struct {
	mu            sync.Mutex
	subscriptions map[uuid.UUID]domain.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subscriptions: make(map[uuid.UUID]domain.Subscription)}
}

func (r *fakeSubscriptionRepo) Create(_ context.Context, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.Status == domain.SubscriptionStatusActive {
		for _, existing := range r.subscriptions {
			if existing.UserID == sub.UserID && existing.Status == domain.SubscriptionStatusActive {
				return errors.New("duplicate key value violates unique constraint")
			}
		}
	}
	r.subscriptions[sub.ID] = *sub
	return nil
}

func (r *fakeSubscriptionRepo) GetActiveByUserID(_ context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subscriptions {
		if sub.UserID == userID && sub.Status == domain.SubscriptionStatusActive {
			s := sub
			return &s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSubscriptionRepo) GetLatestByUserID(_ context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *domain.Subscription
	for _, sub := range r.subscriptions {
		if sub.UserID != userID {
			continue
		}
		if latest == nil || sub.StartedAt.After(latest.StartedAt) {
			s := sub
			latest = &s
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

func (r *fakeSubscriptionRepo) Renew(_ context.Context, id uuid.UUID, expiresAt time.Time, paymentRef *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subscriptions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sub.ExpiresAt = &expiresAt
	sub.ReminderSentAt = nil
	if paymentRef != nil {
		sub.PaymentRef = paymentRef
	}
	r.subscriptions[id] = sub
	return nil
}

func (r *fakeSubscriptionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.SubscriptionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subscriptions[id]
	if !ok {
		return domain.ErrNotFound
	}
	sub.Status = status
	r.subscriptions[id] = sub
	return nil
}

func (r *fakeSubscriptionRepo) ExpireOverdue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, sub := range r.subscriptions {
		if sub.Status == domain.SubscriptionStatusActive && sub.ExpiresAt != nil && !sub.ExpiresAt.After(now) {
			sub.Status = domain.SubscriptionStatusExpired
			sub.ReminderSentAt = nil
			r.subscriptions[id] = sub
			count++
		}
	}
	return count, nil
}

func (r *fakeSubscriptionRepo) GetExpiringSoon(_ context.Context, now time.Time, within time.Duration) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Subscription
	deadline := now.Add(within)
	for _, sub := range r.subscriptions {
		if sub.Status != domain.SubscriptionStatusActive || sub.ExpiresAt == nil || sub.ReminderSentAt != nil {
			continue
		}
		if sub.ExpiresAt.After(now) && !sub.ExpiresAt.After(deadline) {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) GetRecentlyExpiredUnnotified(_ context.Context) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Subscription
	for _, sub := range r.subscriptions {
		if sub.Status == domain.SubscriptionStatusExpired && sub.ReminderSentAt == nil {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) MarkReminded(_ context.Context, ids []uuid.UUID, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, id := range ids {
		sub, ok := r.subscriptions[id]
		if !ok {
			continue
		}
		sub.ReminderSentAt = &at
		r.subscriptions[id] = sub
		count++
	}
	return count, nil
}

type fakeUsageRepo struct {
	mu      sync.Mutex
	records []domain.LLMUsage
}

func (r *fakeUsageRepo) CreateTx(_ context.Context, _ persistence.Transaction, usage *domain.LLMUsage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *usage)
	return nil
}

type sentMessage struct {
	ChatID   int64
	Text     string
	Keyboard map[string]interface{}
}

type fakeTelegramClient struct {
	mu       sync.Mutex
	sent     []sentMessage
	failNext bool
	failAll  bool
}

func (c *fakeTelegramClient) record(chatID int64, text string, keyboard map[string]interface{}) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failAll || c.failNext {
		c.failNext = false
		return 0, errors.New("telegram: chat not found")
	}
	c.sent = append(c.sent, sentMessage{ChatID: chatID, Text: text, Keyboard: keyboard})
	return int64(len(c.sent)), nil
}

func (c *fakeTelegramClient) SendMessage(_ context.Context, chatID int64, text string) (int64, error) {
	return c.record(chatID, text, nil)
}

func (c *fakeTelegramClient) SendMessageWithKeyboard(_ context.Context, chatID int64, text string, keyboard map[string]interface{}) (int64, error) {
	return c.record(chatID, text, keyboard)
}

func (c *fakeTelegramClient) EditMessageText(context.Context, int64, int64, string, map[string]interface{}) error {
	return nil
}

func (c *fakeTelegramClient) DeleteMessage(context.Context, int64, int64) error {
	return nil
}

func (c *fakeTelegramClient) SetMessageReaction(context.Context, int64, int64, string) error {
	return nil
}

func (c *fakeTelegramClient) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func (c *fakeTelegramClient) lastMessage() sentMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}

type testEnv struct {
	service  *Service
	users    *fakeUserRepo
	repo     *fakeHoroscopeRepo
	subs     *fakeSubscriptionRepo
	usage    *fakeUsageRepo
	telegram *fakeTelegramClient
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	repo := newFakeHoroscopeRepo()
	subs := newFakeSubscriptionRepo()
	usage := &fakeUsageRepo{}
	tg := &fakeTelegramClient{}

	cfg := Config{
		Phase1Window:         7 * 24 * time.Hour,
		ActivityWindow:       14 * 24 * time.Hour,
		TeaserInterval:       3 * 24 * time.Hour,
		ExpiryReminderLead:   3 * 24 * time.Hour,
		SubscriptionDuration: 30 * 24 * time.Hour,
		TeaserLines:          1,
		ExtendedTeaserLines:  2,
		DefaultNotifyHourUTC: 0,
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := New(users, repo, subs, usage, tg, nil, nil, nil, cfg, log)

	return &testEnv{
		service:  service,
		users:    users,
		repo:     repo,
		subs:     subs,
		usage:    usage,
		telegram: tg,
	}
}

func (e *testEnv) addUser(birthDate time.Time, createdAt time.Time) *domain.User {
	user := &domain.User{
		ID:             uuid.New(),
		TelegramUserID: int64(len(e.users.users) + 1000),
		TelegramChatID: int64(len(e.users.users) + 1000),
		FirstName:      "Анна",
		BirthDate:      birthDate,
		BirthPlace:     "Москва",
		LivingPlace:    "Москва",
		Language:       "ru",
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	_ = e.users.Create(context.Background(), user)
	return user
}
