package reschedule

import (
	"context"

	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

// Collaborator внешние вызовы виджета ученика
type Collaborator interface {
	Upcoming(ctx context.Context, studentID string) (*model.UpcomingLessons, error)
	AvailableDates(ctx context.Context, studentID string, weeksAhead int) (*model.AvailableDates, error)
	TimeSlots(ctx context.Context, studentID, date string) (*model.TimeSlots, error)
	Reschedule(ctx context.Context, studentID, lessonID string, req model.RescheduleRequest) (*model.RescheduleResult, error)
}

// Driver выполняет эффекты мастера синхронно и подаёт результаты обратно
// в Transition. Эффекты интерфейса (ShowMessage, RefreshLessons) возвращаются
// вызывающему.
type Driver struct {
	collab     Collaborator
	weeksAhead int
	logger     *zap.Logger
}

// NewDriver создаёт драйвер
func NewDriver(collab Collaborator, weeksAhead int, logger *zap.Logger) *Driver {
	if weeksAhead <= 0 {
		weeksAhead = 2
	}
	return &Driver{collab: collab, weeksAhead: weeksAhead, logger: logger}
}

// Dispatch применяет событие и все порождённые им загрузки
func (d *Driver) Dispatch(ctx context.Context, studentID string, s State, ev Event) (State, []Effect) {
	var ui []Effect
	queue := []Event{ev}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effects []Effect
		s, effects = Transition(s, next)

		for _, effect := range effects {
			if result := d.run(ctx, studentID, effect); result != nil {
				queue = append(queue, result)
				continue
			}
			ui = append(ui, effect)
		}
	}

	return s, ui
}

// run выполняет эффект ввода-вывода и возвращает событие-результат,
// nil для эффектов интерфейса
func (d *Driver) run(ctx context.Context, studentID string, effect Effect) Event {
	switch e := effect.(type) {
	case LoadUpcoming:
		res, err := d.collab.Upcoming(ctx, studentID)
		if err != nil {
			d.logger.Warn("Failed to load upcoming lessons", zap.String("student_id", studentID), zap.Error(err))
			return UpcomingFailed{Err: err}
		}
		return UpcomingLoaded{Lessons: res.Lessons}

	case LoadDates:
		res, err := d.collab.AvailableDates(ctx, studentID, d.weeksAhead)
		if err != nil {
			d.logger.Warn("Failed to load available dates", zap.String("student_id", studentID), zap.Error(err))
			return DatesFailed{Err: err}
		}
		dates := make([]string, 0, len(res.AvailableDates))
		for _, ad := range res.AvailableDates {
			dates = append(dates, ad.Date)
		}
		return DatesLoaded{Dates: dates}

	case LoadSlots:
		res, err := d.collab.TimeSlots(ctx, studentID, e.Date)
		if err != nil {
			d.logger.Warn("Failed to load time slots",
				zap.String("student_id", studentID),
				zap.String("date", e.Date),
				zap.Error(err),
			)
			return SlotsFailed{Date: e.Date, Err: err}
		}
		return SlotsLoaded{Date: e.Date, Slots: res.TimeSlots}

	case SubmitReschedule:
		res, err := d.collab.Reschedule(ctx, studentID, e.LessonID, e.Request)
		if err != nil {
			d.logger.Warn("Reschedule failed",
				zap.String("student_id", studentID),
				zap.String("lesson_id", e.LessonID),
				zap.Error(err),
			)
			return SubmitFailed{Err: err}
		}
		d.logger.Info("Lesson reschedule submitted",
			zap.String("student_id", studentID),
			zap.String("lesson_id", e.LessonID),
			zap.String("transfer_type", string(e.Request.TransferType)),
		)
		return SubmitSucceeded{Message: res.Message}
	}

	return nil
}
