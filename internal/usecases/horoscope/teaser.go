package horoscope

import (
	"strings"

	"github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope/texts"
)

// deriveTeaser строит тизер из полного текста: отбрасывает заголовок
// (первый блок до пустой строки), берёт первые maxLines строк контента
// и добавляет маркер обрезки
func deriveTeaser(fullText string, maxLines int) string {
	if maxLines <= 0 {
		maxLines = 1
	}

	content := contentLines(fullText)
	if len(content) == 0 {
		return texts.EllipsisMarker
	}

	if len(content) > maxLines {
		content = content[:maxLines]
	}

	return strings.Join(content, "\n") + texts.EllipsisMarker
}

// contentLines строки контента без заголовка и пустых строк
func contentLines(fullText string) []string {
	lines := strings.Split(fullText, "\n")

	// Заголовок — всё до первой пустой строки
	bodyStart := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			bodyStart = i + 1
			break
		}
	}

	var content []string
	for _, line := range lines[bodyStart:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		content = append(content, trimmed)
	}
	return content
}
