package handlers

import (
	"strings"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/reschedule"
)

// Callback data мастера переноса
const (
	CallbackPrefix = "rs_"

	OpenLesson   = "rs_open:"   // rs_open:lesson_id
	SelectLesson = "rs_lesson:" // rs_lesson:lesson_id
	SelectScope  = "rs_scope:"  // rs_scope:nearest
	NextStep     = "rs_next"
	SelectDate   = "rs_date:" // rs_date:2024-01-16
	SelectTime   = "rs_time:" // rs_time:12:30
	Submit       = "rs_submit"
	Cancel       = "rs_cancel"
)

// ParseCallback переводит callback data в событие мастера
func ParseCallback(data string) (reschedule.Event, bool) {
	switch data {
	case NextStep:
		return reschedule.Next{}, true
	case Submit:
		return reschedule.Submit{}, true
	case Cancel:
		return reschedule.Cancel{}, true
	}

	if id, ok := strings.CutPrefix(data, OpenLesson); ok {
		return reschedule.Open{SelectedID: id}, true
	}
	if id, ok := strings.CutPrefix(data, SelectLesson); ok && id != "" {
		return reschedule.SelectLesson{LessonID: id}, true
	}
	if scope, ok := strings.CutPrefix(data, SelectScope); ok {
		return reschedule.SelectScope{Scope: model.TransferType(scope)}, true
	}
	if date, ok := strings.CutPrefix(data, SelectDate); ok && date != "" {
		return reschedule.SelectDate{Date: date}, true
	}
	if t, ok := strings.CutPrefix(data, SelectTime); ok && t != "" {
		return reschedule.SelectTime{Time: t}, true
	}
	return nil, false
}
