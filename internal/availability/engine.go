package availability

import (
	"time"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

// Classifier определяет статус ячейки сетки. LessonDuration задаёт, сколько
// минут занимает любой урок: сохранённая длительность урока игнорируется.
type Classifier struct {
	LessonDuration int
}

// NewClassifier создаёт классификатор; неположительная длительность
// заменяется стандартной
func NewClassifier(lessonDuration int) Classifier {
	if lessonDuration <= 0 {
		lessonDuration = LessonDuration
	}
	return Classifier{LessonDuration: lessonDuration}
}

// ClassifyCell классифицирует ячейку со стандартной длительностью урока
func ClassifyCell(date time.Time, hour, minute int, lessons []model.Lesson, rules []model.RegularLessonRule, free model.FreeSlots) model.CellStatus {
	return NewClassifier(LessonDuration).Classify(date, hour, minute, lessons, rules, free)
}

// Classify возвращает ровно один статус, первое совпадение побеждает:
// урок, регулярный блок, свободное окно, доступно.
func (c Classifier) Classify(date time.Time, hour, minute int, lessons []model.Lesson, rules []model.RegularLessonRule, free model.FreeSlots) model.CellStatus {
	dateStr := FormatDate(date)
	cellTime := hour*60 + minute

	if c.lessonCovers(dateStr, cellTime, lessons) {
		return model.CellLessonBusy
	}
	if regularCovers(int(date.Weekday()), cellTime, rules) {
		return model.CellRegularBusy
	}
	if free[SlotKey(dateStr, cellTime)] {
		return model.CellFree
	}
	return model.CellAvailable
}

func (c Classifier) lessonCovers(date string, cellTime int, lessons []model.Lesson) bool {
	for i := range lessons {
		if lessons[i].Date != date {
			continue
		}
		start, ok := parseStoredClock(lessons[i].Time)
		if !ok {
			continue
		}
		if cellTime >= start && cellTime < start+c.LessonDuration {
			return true
		}
	}
	return false
}

func regularCovers(dayOfWeek, cellTime int, rules []model.RegularLessonRule) bool {
	for i := range rules {
		if rules[i].DayOfWeek != dayOfWeek {
			continue
		}
		start, ok := parseStoredClock(rules[i].Time)
		if !ok {
			continue
		}
		if cellTime >= start && cellTime < start+rules[i].Duration {
			return true
		}
	}
	return false
}

// Toggleable можно ли переключать ячейку вручную
func Toggleable(status model.CellStatus) bool {
	return status == model.CellAvailable || status == model.CellFree
}

// Toggle переключает ячейку между available и free. Снятие отметки удаляет
// ключ, а не сохраняет false.
func Toggle(free model.FreeSlots, date string, minutes int, current model.CellStatus) (model.CellStatus, error) {
	if !Toggleable(current) {
		return current, model.NewValidationError("cell", "Ячейка занята и не может быть изменена")
	}

	key := SlotKey(date, minutes)
	if current == model.CellFree {
		delete(free, key)
		return model.CellAvailable, nil
	}
	free[key] = true
	return model.CellFree, nil
}

// Bookable можно ли начать урок в это время: стартовая ячейка отмечена
// свободной, а остальные ячейки, которые накроет урок, не заняты
func (c Classifier) Bookable(date time.Time, minutes int, lessons []model.Lesson, rules []model.RegularLessonRule, free model.FreeSlots) bool {
	if c.Classify(date, minutes/60, minutes%60, lessons, rules, free) != model.CellFree {
		return false
	}
	for m := minutes + SlotMinutes; m < minutes+c.LessonDuration; m += SlotMinutes {
		if c.Classify(date, m/60, m%60, lessons, rules, free).IsBusy() {
			return false
		}
	}
	return true
}

// CellTitle подпись ячейки для сетки
func CellTitle(status model.CellStatus, minutes int) string {
	return FormatClock(minutes) + " - " + statusMessage(status)
}

func statusMessage(status model.CellStatus) string {
	switch status {
	case model.CellLessonBusy:
		return "Занято уроком"
	case model.CellRegularBusy:
		return "Занято регулярным уроком"
	case model.CellFree:
		return "Свободное окно"
	default:
		return "Доступно"
	}
}
