package handlers

import (
	"strconv"
	"time"

	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/controller/state"
	"github.com/Freeeeeet/lesson_calendar/internal/reschedule"
	"github.com/Freeeeeet/lesson_calendar/internal/service"
)

// Handlers содержит все зависимости для обработки команд и нажатий
type Handlers struct {
	students       *service.StudentService
	availability   *service.AvailabilityService
	lessons        *service.LessonService
	driver         *reschedule.Driver
	stateManager   *state.Manager
	lessonDuration int
	now            func() time.Time
	logger         *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	students *service.StudentService,
	availabilitySvc *service.AvailabilityService,
	lessons *service.LessonService,
	driver *reschedule.Driver,
	stateManager *state.Manager,
	lessonDuration int,
	location *time.Location,
	logger *zap.Logger,
) *Handlers {
	if location == nil {
		location = time.UTC
	}
	return &Handlers{
		students:       students,
		availability:   availabilitySvc,
		lessons:        lessons,
		driver:         driver,
		stateManager:   stateManager,
		lessonDuration: lessonDuration,
		now:            func() time.Time { return time.Now().In(location) },
		logger:         logger,
	}
}

// StudentID идентификатор ученика для пользователя Telegram
func StudentID(user *models.User) string {
	return strconv.FormatInt(user.ID, 10)
}
