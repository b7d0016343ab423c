package chat

import (
	"fmt"
	"strings"
	"time"
)

// Locale selects the language of weekday and month bucket labels.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleRussian Locale = "ru"
)

var russianWeekdays = [7]string{
	"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота",
}

var russianMonths = [12]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// ParseLocale validates a locale code.
func ParseLocale(s string) (Locale, error) {
	switch l := Locale(strings.ToLower(strings.TrimSpace(s))); l {
	case LocaleEnglish, LocaleRussian:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLocale, s)
	}
}

func (l Locale) weekday(d time.Weekday) string {
	if l == LocaleRussian {
		return russianWeekdays[d]
	}
	return d.String()
}

func (l Locale) month(m time.Month) string {
	if l == LocaleRussian {
		return russianMonths[m-1]
	}
	return m.String()
}
