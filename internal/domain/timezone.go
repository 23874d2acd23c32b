package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// UTCOffsetToLabel превращает часовой сдвиг в метку вида "UTC+3" / "UTC-5" / "UTC+0"
func UTCOffsetToLabel(offset int) string {
	if offset < 0 {
		return fmt.Sprintf("UTC%d", offset)
	}
	return fmt.Sprintf("UTC+%d", offset)
}

// LabelToUTCOffset разбирает метку вида "UTC+3"; пустая или некорректная метка — сдвиг 0
func LabelToUTCOffset(label string) int {
	trimmed := strings.TrimSpace(label)
	if !strings.HasPrefix(trimmed, "UTC") {
		return 0
	}

	offset, err := strconv.Atoi(strings.TrimPrefix(trimmed, "UTC"))
	if err != nil {
		return 0
	}
	return offset
}

// LocalHourToUTC переводит локальный час пользователя в час UTC
func LocalHourToUTC(localHour, utcOffset int) int {
	return ((localHour-utcOffset)%24 + 24) % 24
}

// UTCHourToLocal переводит час UTC в локальный час пользователя
func UTCHourToLocal(utcHour, utcOffset int) int {
	return ((utcHour+utcOffset)%24 + 24) % 24
}
