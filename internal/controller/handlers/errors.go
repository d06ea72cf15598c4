package handlers

import (
	"errors"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var ve *model.ValidationError
	switch {
	case errors.Is(err, model.ErrNotEnrolled):
		return "❌ Вы не привязаны к преподавателю. Попросите у преподавателя ссылку и отправьте /start <код>"
	case errors.Is(err, model.ErrNotFound):
		return "❌ Урок не найден"
	case errors.As(err, &ve):
		return "❌ " + ve.Message
	case model.IsNetwork(err):
		return "❌ Сервис расписания недоступен. Попробуйте позже."
	default:
		return "❌ Произошла ошибка"
	}
}
