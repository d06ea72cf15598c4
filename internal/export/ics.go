package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

// icsLocalLayout локальное время без пояса (floating time)
const icsLocalLayout = "20060102T150405"

// CalendarInput данные для iCalendar выгрузки преподавателя
type CalendarInput struct {
	TeacherID      string
	TeacherName    string
	Lessons        []model.Lesson
	RegularLessons []model.RegularLessonRule
	// From дата, с которой начинаются регулярные блоки
	From time.Time
	// LessonDuration длительность урока в минутах
	LessonDuration int
	Now            time.Time
}

// BuildICS собирает календарь: отдельные события для уроков и повторяющиеся
// события для регулярных блоков. Отменённые уроки помечаются CANCELLED.
func BuildICS(in CalendarInput) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//lesson_calendar//RU")
	cal.SetXWRCalName(in.TeacherName)

	duration := time.Duration(in.LessonDuration) * time.Minute
	if duration <= 0 {
		duration = availability.LessonDuration * time.Minute
	}

	for _, l := range in.Lessons {
		start, err := availability.StartOf(l.Date, l.Time)
		if err != nil {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@%s", l.ID, in.TeacherID))
		event.SetDtStampTime(in.Now)
		if !l.CreatedAt.IsZero() {
			event.SetCreatedTime(l.CreatedAt)
		}
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocalLayout))
		event.SetProperty(ics.ComponentPropertyDtEnd, start.Add(duration).Format(icsLocalLayout))
		event.SetSummary(lessonSummary(l))
		if l.Topic != "" {
			event.SetDescription(l.Topic)
		}
		event.SetProperty(ics.ComponentPropertyCategories, string(l.Type))
		if l.Type == model.LessonTypeCancelled {
			event.SetStatus(ics.ObjectStatusCancelled)
		} else {
			event.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	for i, rule := range in.RegularLessons {
		r, err := availability.RuleRecurrence(rule, in.From)
		if err != nil {
			return "", fmt.Errorf("regular lesson %d: %w", i, err)
		}
		start := r.OrigOptions.Dtstart

		event := cal.AddEvent(fmt.Sprintf("regular-%d-%d-%s@%s", i, rule.DayOfWeek, rule.Time, in.TeacherID))
		event.SetDtStampTime(in.Now)
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocalLayout))
		event.SetProperty(ics.ComponentPropertyDtEnd, start.Add(time.Duration(rule.Duration)*time.Minute).Format(icsLocalLayout))
		event.AddRrule(r.OrigOptions.RRuleString())
		event.SetSummary(regularSummary(rule))
		event.SetProperty(ics.ComponentPropertyCategories, "regular-busy")
	}

	return cal.Serialize(), nil
}

func lessonSummary(l model.Lesson) string {
	switch l.Type {
	case model.LessonTypeCancelled:
		return "Отменён: " + l.Student
	case model.LessonTypeRescheduled:
		return "Перенесён: " + l.Student
	default:
		return "Урок: " + l.Student
	}
}

func regularSummary(rule model.RegularLessonRule) string {
	if rule.Title != "" {
		return rule.Title
	}
	return "Регулярный урок"
}
