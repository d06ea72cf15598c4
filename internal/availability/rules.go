package availability

import (
	"time"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

// NewRegularLessonRule проверяет ввод формы и создаёт правило.
// Время и длительность должны быть кратны шагу сетки.
func NewRegularLessonRule(input model.RegularLessonInput, now time.Time) (*model.RegularLessonRule, error) {
	if input.DayOfWeek == nil || input.Time == "" || input.Duration == 0 {
		return nil, model.NewValidationError("", "Заполните все обязательные поля")
	}

	rule := model.RegularLessonRule{
		DayOfWeek: *input.DayOfWeek,
		Time:      input.Time,
		Duration:  input.Duration,
		Title:     input.Title,
		AddedAt:   now,
	}
	if err := ValidateRegularLessonRule(rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// ValidateRegularLessonRule проверяет уже собранное правило, в том числе
// пришедшее в составе снимка занятости
func ValidateRegularLessonRule(rule model.RegularLessonRule) error {
	if rule.DayOfWeek < 0 || rule.DayOfWeek > 6 {
		return model.NewValidationError("dayOfWeek", "День недели должен быть от 0 до 6")
	}

	start, err := ParseClock(rule.Time)
	if err != nil {
		return err
	}
	if start%SlotMinutes != 0 {
		return model.NewValidationError("time", "Время урока должно быть кратно 30 минутам (например, 9:00, 9:30, 10:00)")
	}
	if rule.Duration <= 0 || rule.Duration%SlotMinutes != 0 {
		return model.NewValidationError("duration", "Продолжительность урока должна быть кратной 30 минутам")
	}
	return nil
}
