package handler

import (
	"time"

	"github.com/Freeeeeet/lesson_calendar/internal/service"
)

// Services сервисы, которые нужны обработчикам
type Services struct {
	Lessons        *service.LessonService
	Availability   *service.AvailabilityService
	Students       *service.StudentService
	LessonDuration int
}

// Handler агрегирует обработчики всех модулей
type Handler struct {
	Teacher *TeacherHandler
	Student *StudentHandler
	Export  *ExportHandler
}

// NewHandler создаёт обработчики
func NewHandler(svc Services) *Handler {
	now := time.Now
	return &Handler{
		Teacher: NewTeacherHandler(svc.Lessons, svc.Availability),
		Student: NewStudentHandler(svc.Students),
		Export:  NewExportHandler(svc.Lessons, svc.Availability, svc.LessonDuration, now),
	}
}
