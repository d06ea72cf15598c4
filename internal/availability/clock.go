package availability

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

const (
	// SlotMinutes шаг сетки расписания
	SlotMinutes = 30
	// LessonDuration фиксированная длительность урока в минутах
	LessonDuration = 40
	// DateLayout формат даты в ключах и документах
	DateLayout = "2006-01-02"
	// DateTimeLayout локальное время без часового пояса
	DateTimeLayout = "2006-01-02T15:04:05"
	// MaxWeeksAhead горизонт поиска дат для переноса
	MaxWeeksAhead = 12
)

var (
	clockPattern      = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):([0-5][0-9])$`)
	looseClockPattern = regexp.MustCompile(`^([0-9]|[0-1][0-9]|2[0-3]):([0-5][0-9])$`)
)

// ParseClock переводит строгое "HH:MM" в минуты от полуночи
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, model.NewValidationError("time", "Некорректное время")
	}
	return clockMinutes(m[1], m[2]), nil
}

// parseStoredClock принимает и старый формат без ведущего нуля ("9:00")
func parseStoredClock(s string) (int, bool) {
	m := looseClockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	return clockMinutes(m[1], m[2]), true
}

func clockMinutes(h, m string) int {
	hours, _ := strconv.Atoi(h)
	mins, _ := strconv.Atoi(m)
	return hours*60 + mins
}

// FormatClock переводит минуты от полуночи в "HH:MM"
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatDate форматирует дату как YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate разбирает YYYY-MM-DD. Даты не привязаны к часовому поясу,
// поэтому используется UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, model.NewValidationError("date", "Некорректная дата")
	}
	return t, nil
}

// DateOf отбрасывает время и пояс, оставляя календарную дату
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart возвращает понедельник недели, в которую попадает дата
func WeekStart(t time.Time) time.Time {
	d := DateOf(t)
	daysSinceMonday := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}
	return d.AddDate(0, 0, -daysSinceMonday)
}

// SlotKey ключ отметки свободного окна
func SlotKey(date string, minutes int) string {
	return date + "_" + FormatClock(minutes)
}

// NormalizeSlotKey приводит ключ к виду YYYY-MM-DD_HH:MM
func NormalizeSlotKey(key string) (string, bool) {
	date, clock, ok := strings.Cut(key, "_")
	if !ok {
		return "", false
	}
	if _, err := ParseDate(date); err != nil {
		return "", false
	}
	minutes, ok := parseStoredClock(clock)
	if !ok {
		return "", false
	}
	return SlotKey(date, minutes), true
}

// NormalizeFreeSlots переписывает старые ключи и отбрасывает false и мусор
func NormalizeFreeSlots(slots model.FreeSlots) model.FreeSlots {
	normalized := make(model.FreeSlots, len(slots))
	for key, free := range slots {
		if !free {
			continue
		}
		if k, ok := NormalizeSlotKey(key); ok {
			normalized[k] = true
		}
	}
	return normalized
}

// StartOf собирает локальное время начала из даты и "HH:MM"
func StartOf(date, clock string) (time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	minutes, ok := parseStoredClock(clock)
	if !ok {
		return time.Time{}, model.NewValidationError("time", "Некорректное время")
	}
	return d.Add(time.Duration(minutes) * time.Minute), nil
}

// SplitDateTime разбирает "YYYY-MM-DDTHH:MM[:SS]" на дату и "HH:MM"
func SplitDateTime(s string) (string, string, error) {
	for _, layout := range []string{DateTimeLayout, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return FormatDate(t), FormatClock(t.Hour()*60 + t.Minute()), nil
		}
	}
	return "", "", model.NewValidationError("new_start_time", "Некорректные дата и время")
}

// StoredClockMinutes разбирает время из сохранённых данных, допуская "9:00"
func StoredClockMinutes(s string) (int, bool) {
	return parseStoredClock(s)
}
