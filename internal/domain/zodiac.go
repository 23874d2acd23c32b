package domain

import "time"

// ZodiacSign знак зодиака
type ZodiacSign string

const (
	ZodiacAries       ZodiacSign = "aries"
	ZodiacTaurus      ZodiacSign = "taurus"
	ZodiacGemini      ZodiacSign = "gemini"
	ZodiacCancer      ZodiacSign = "cancer"
	ZodiacLeo         ZodiacSign = "leo"
	ZodiacVirgo       ZodiacSign = "virgo"
	ZodiacLibra       ZodiacSign = "libra"
	ZodiacScorpio     ZodiacSign = "scorpio"
	ZodiacSagittarius ZodiacSign = "sagittarius"
	ZodiacCapricorn   ZodiacSign = "capricorn"
	ZodiacAquarius    ZodiacSign = "aquarius"
	ZodiacPisces      ZodiacSign = "pisces"
)

// signStart день месяца, с которого начинается новый знак, и сам знак.
// День, равный границе, принадлежит новому знаку
var signStarts = map[time.Month]struct {
	day  int
	sign ZodiacSign
}{
	time.January:   {20, ZodiacAquarius},
	time.February:  {19, ZodiacPisces},
	time.March:     {21, ZodiacAries},
	time.April:     {20, ZodiacTaurus},
	time.May:       {21, ZodiacGemini},
	time.June:      {21, ZodiacCancer},
	time.July:      {23, ZodiacLeo},
	time.August:    {23, ZodiacVirgo},
	time.September: {23, ZodiacLibra},
	time.October:   {23, ZodiacScorpio},
	time.November:  {22, ZodiacSagittarius},
	time.December:  {22, ZodiacCapricorn},
}

// ZodiacSignForDate определяет знак зодиака по дате рождения
func ZodiacSignForDate(birthDate time.Time) ZodiacSign {
	month := birthDate.Month()
	start := signStarts[month]
	if birthDate.Day() >= start.day {
		return start.sign
	}

	prevMonth := month - 1
	if prevMonth < time.January {
		prevMonth = time.December
	}
	return signStarts[prevMonth].sign
}

// titles русские названия знаков для текстов бота
var titles = map[ZodiacSign]string{
	ZodiacAries:       "Овен",
	ZodiacTaurus:      "Телец",
	ZodiacGemini:      "Близнецы",
	ZodiacCancer:      "Рак",
	ZodiacLeo:         "Лев",
	ZodiacVirgo:       "Дева",
	ZodiacLibra:       "Весы",
	ZodiacScorpio:     "Скорпион",
	ZodiacSagittarius: "Стрелец",
	ZodiacCapricorn:   "Козерог",
	ZodiacAquarius:    "Водолей",
	ZodiacPisces:      "Рыбы",
}

// Title русское название знака
func (s ZodiacSign) Title() string {
	return titles[s]
}
