package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func birthday(month time.Month, day int) time.Time {
	return time.Date(1990, month, day, 0, 0, 0, 0, time.UTC)
}

func TestZodiacSignForDate(t *testing.T) {
	tests := []struct {
		month time.Month
		day   int
		want  ZodiacSign
	}{
		// День границы принадлежит новому знаку
		{time.January, 19, ZodiacCapricorn},
		{time.January, 20, ZodiacAquarius},
		{time.February, 18, ZodiacAquarius},
		{time.February, 19, ZodiacPisces},
		{time.March, 20, ZodiacPisces},
		{time.March, 21, ZodiacAries},
		{time.April, 19, ZodiacAries},
		{time.April, 20, ZodiacTaurus},
		{time.July, 22, ZodiacCancer},
		{time.July, 23, ZodiacLeo},
		{time.November, 21, ZodiacScorpio},
		{time.November, 22, ZodiacSagittarius},
		{time.December, 21, ZodiacSagittarius},
		{time.December, 22, ZodiacCapricorn},
		{time.December, 31, ZodiacCapricorn},
		{time.January, 1, ZodiacCapricorn},
	}

	for _, tt := range tests {
		got := ZodiacSignForDate(birthday(tt.month, tt.day))
		assert.Equal(t, tt.want, got, "%s %d", tt.month, tt.day)
	}
}

func TestZodiacSignTitle(t *testing.T) {
	assert.Equal(t, "Овен", ZodiacAries.Title())
	assert.Equal(t, "Рыбы", ZodiacPisces.Title())

	// У каждого знака должно быть русское название
	for sign := range titles {
		assert.NotEmpty(t, sign.Title())
	}
}
