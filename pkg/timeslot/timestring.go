package timeslot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidFormat возвращается при некорректном формате времени (ожидается HH:MM)
	ErrInvalidFormat = errors.New("timeslot: invalid time string format")

	// ErrOutOfRange возвращается, когда часы или минуты выходят за допустимый диапазон
	ErrOutOfRange = errors.New("timeslot: time value out of range")
)

// MinutesPerDay количество минут в сутках
const MinutesPerDay = 24 * 60

// TimeString время суток в формате "HH:MM" (без даты и часового пояса)
// Хранится как строка и сериализуется в БД/JSON без преобразований
type TimeString string

// NewTimeString создает TimeString из time.Time (отбрасывает дату и секунды)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString парсит и валидирует строку формата "HH:MM"
// Некорректный ввод отклоняется на границе, глубже по коду время считается корректным
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// FromMinutes создает TimeString из количества минут от начала суток
func FromMinutes(minutes int) TimeString {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}

// Validate проверяет формат "HH:MM" и диапазоны (часы 0-23, минуты 0-59)
func (t TimeString) Validate() error {
	parts := strings.Split(string(t), ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("%w: %q", ErrOutOfRange, string(t))
	}

	return nil
}

// IsZero возвращает true для пустого значения
func (t TimeString) IsZero() bool {
	return t == ""
}

// Minutes возвращает количество минут от начала суток (hour*60 + minute)
func (t TimeString) Minutes() int {
	parts := strings.Split(string(t), ":")
	if len(parts) != 2 {
		return 0
	}
	hour, _ := strconv.Atoi(parts[0])
	minute, _ := strconv.Atoi(parts[1])
	return hour*60 + minute
}

// AddMinutes возвращает время, сдвинутое на minutes минут вперед
// Выход за пределы суток считается ошибкой - бронирования не пересекают полночь
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	total := t.Minutes() + minutes
	if total < 0 || total > MinutesPerDay {
		return "", fmt.Errorf("%w: %s + %d minutes", ErrOutOfRange, string(t), minutes)
	}

	return FromMinutes(total), nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// String возвращает строковое представление "HH:MM"
func (t TimeString) String() string {
	return string(t)
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов [start1, end1) и [start2, end2)
// Границы задаются в минутах от начала суток
// Интервалы, соприкасающиеся концами, НЕ считаются пересекающимися
func Overlaps(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}
