package horoscope

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sgavka/mystic-bots-sub000/internal/domain"
	"github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope/texts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBirthDate = time.Date(1992, time.April, 25, 0, 0, 0, 0, time.UTC)

func TestGenerateIsDeterministic(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(testBirthDate, time.Now().UTC())
	targetDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	first, err := env.service.Generate(context.Background(), user, targetDate, domain.HoroscopeTypeDaily)
	require.NoError(t, err)

	second, err := env.service.Generate(context.Background(), user, targetDate, domain.HoroscopeTypeDaily)
	require.NoError(t, err)

	assert.Equal(t, first.FullText, second.FullText, "same user and date must produce identical text")
	assert.Equal(t, first.TeaserText, second.TeaserText)
	assert.Equal(t, first.ExtendedTeaserText, second.ExtendedTeaserText)
	assert.Nil(t, first.Usage, "template path must not report llm usage")
}

func TestGenerateVariesByUserAndDate(t *testing.T) {
	env := newTestEnv()
	targetDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	// Тела строятся от seed (пользователь, дата): среди нескольких
	// пользователей и дат обязаны встретиться разные тексты
	userBodies := make(map[string]struct{})
	for i := 0; i < 6; i++ {
		user := env.addUser(testBirthDate, time.Now().UTC())
		content, err := env.service.Generate(context.Background(), user, targetDate, domain.HoroscopeTypeDaily)
		require.NoError(t, err)
		userBodies[strings.SplitN(content.FullText, "\n\n", 2)[1]] = struct{}{}
	}
	assert.Greater(t, len(userBodies), 1, "different users should get different bodies")

	user := env.addUser(testBirthDate, time.Now().UTC())
	dateBodies := make(map[string]struct{})
	for day := 0; day < 6; day++ {
		content, err := env.service.Generate(context.Background(), user, targetDate.Add(time.Duration(day)*24*time.Hour), domain.HoroscopeTypeDaily)
		require.NoError(t, err)
		dateBodies[strings.SplitN(content.FullText, "\n\n", 2)[1]] = struct{}{}
	}
	assert.Greater(t, len(dateBodies), 1, "different dates should get different bodies")
}

func TestGenerateHeaders(t *testing.T) {
	env := newTestEnv()
	user := env.addUser(testBirthDate, time.Now().UTC())
	targetDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	daily, err := env.service.Generate(context.Background(), user, targetDate, domain.HoroscopeTypeDaily)
	require.NoError(t, err)
	assert.Contains(t, daily.FullText, "гороскоп на 15.06.2025")
	assert.Contains(t, daily.FullText, "Телец", "birth date 25.04 is taurus")

	first, err := env.service.Generate(context.Background(), user, targetDate, domain.HoroscopeTypeFirst)
	require.NoError(t, err)
	assert.Contains(t, first.FullText, "добро пожаловать")
}

func TestGenerateRequiresUser(t *testing.T) {
	env := newTestEnv()
	_, err := env.service.Generate(context.Background(), nil, time.Now(), domain.HoroscopeTypeDaily)
	assert.Error(t, err)
}

func TestDeriveTeaser(t *testing.T) {
	full := "Заголовок\nЗнак: Телец\n\nПервая строка.\nВторая строка.\nТретья строка."

	teaser := deriveTeaser(full, 1)
	assert.Equal(t, "Первая строка."+texts.EllipsisMarker, teaser)
	assert.NotContains(t, teaser, "Заголовок", "teaser must not contain the header")

	extended := deriveTeaser(full, 2)
	assert.Equal(t, "Первая строка.\nВторая строка."+texts.EllipsisMarker, extended)

	assert.True(t, len(teaser) < len(extended))
	assert.True(t, len(extended) < len(full))
}

func TestDeriveTeaserShortBody(t *testing.T) {
	full := "Заголовок\n\nЕдинственная строка."

	// Лимит больше тела - возвращаем всё, что есть
	teaser := deriveTeaser(full, 5)
	assert.Equal(t, "Единственная строка."+texts.EllipsisMarker, teaser)

	// Текст без пустой строки считается телом целиком
	assert.Equal(t, "Одна строка."+texts.EllipsisMarker, deriveTeaser("Одна строка.", 1))

	// Пустой текст не ломает деривацию
	assert.Equal(t, texts.EllipsisMarker, deriveTeaser("", 1))
}

func TestNormalizeBody(t *testing.T) {
	raw := "  Первый абзац.  \n\n\nВторой абзац.\n\n"
	assert.Equal(t, "Первый абзац.\nВторой абзац.", normalizeBody(raw))
}
