package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/repository"
)

// StudentOptions параметры виджета ученика
type StudentOptions struct {
	UpcomingLimit int
	WeeksAhead    int
	Location      *time.Location
}

// StudentService серверная часть виджета переноса уроков
type StudentService struct {
	enrollments  repository.EnrollmentStore
	lessons      *LessonService
	availability *AvailabilityService
	classifier   availability.Classifier
	opts         StudentOptions
	notifier     Notifier
	metrics      *Metrics
	now          func() time.Time
	logger       *zap.Logger
}

// NewStudentService создаёт сервис. notifier и metrics могут быть nil.
func NewStudentService(
	enrollments repository.EnrollmentStore,
	lessons *LessonService,
	availabilitySvc *AvailabilityService,
	classifier availability.Classifier,
	opts StudentOptions,
	notifier Notifier,
	metrics *Metrics,
	logger *zap.Logger,
) *StudentService {
	if opts.UpcomingLimit <= 0 {
		opts.UpcomingLimit = 5
	}
	if opts.WeeksAhead <= 0 {
		opts.WeeksAhead = 2
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &StudentService{
		enrollments:  enrollments,
		lessons:      lessons,
		availability: availabilitySvc,
		classifier:   classifier,
		opts:         opts,
		notifier:     notifier,
		metrics:      metrics,
		now:          time.Now,
		logger:       logger,
	}
}

// Enroll привязывает ученика к преподавателю
func (s *StudentService) Enroll(ctx context.Context, studentID, teacherID string) (*model.Enrollment, error) {
	if studentID == "" || teacherID == "" {
		return nil, model.NewValidationError("", "Укажите ученика и преподавателя")
	}

	enrollment := &model.Enrollment{StudentID: studentID, TeacherID: teacherID}
	if err := s.enrollments.Upsert(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("enroll student: %w", err)
	}

	s.logger.Info("Student enrolled",
		zap.String("student_id", studentID),
		zap.String("teacher_id", teacherID),
	)
	return enrollment, nil
}

// TeacherOf преподаватель ученика, model.ErrNotEnrolled если привязки нет
func (s *StudentService) TeacherOf(ctx context.Context, studentID string) (string, error) {
	enrollment, err := s.enrollments.GetByStudentID(ctx, studentID)
	if err != nil {
		return "", fmt.Errorf("get enrollment: %w", err)
	}
	if enrollment == nil {
		return "", model.ErrNotEnrolled
	}
	return enrollment.TeacherID, nil
}

// studentView всё, что нужно для ответа ученику: данные преподавателя
// и "сейчас" в виде локального времени без пояса
type studentView struct {
	teacherID string
	settings  *model.Settings
	snapshot  *model.AvailabilitySnapshot
	lessons   []model.Lesson
	now       time.Time
	today     time.Time
}

func (s *StudentService) view(ctx context.Context, studentID string) (*studentView, error) {
	teacherID, err := s.TeacherOf(ctx, studentID)
	if err != nil {
		return nil, err
	}

	settings, err := s.availability.Settings(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.availability.Snapshot(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.lessons.For(teacherID).All(ctx)
	if err != nil {
		return nil, err
	}

	now := wallClock(s.now().In(s.opts.Location))
	return &studentView{
		teacherID: teacherID,
		settings:  settings,
		snapshot:  snapshot,
		lessons:   lessons,
		now:       now,
		today:     availability.DateOf(now),
	}, nil
}

// Availability занятость преподавателя и ученика на текущую неделю и WeeksAhead недель вперёд
func (s *StudentService) Availability(ctx context.Context, studentID string) (*model.WeeklyAvailability, error) {
	v, err := s.view(ctx, studentID)
	if err != nil {
		return nil, err
	}

	from := availability.WeekStart(v.today)
	to := from.AddDate(0, 0, 7*(s.opts.WeeksAhead+1))

	result := &model.WeeklyAvailability{
		TeacherBusy: []model.Interval{},
		StudentBusy: []model.Interval{},
		Lessons:     []model.CalendarLesson{},
	}

	for _, rule := range v.snapshot.RegularLessons {
		occurrences, err := availability.RuleOccurrences(rule, from, to)
		if err != nil {
			s.logger.Warn("Skipping invalid regular lesson", zap.String("teacher_id", v.teacherID), zap.Error(err))
			continue
		}
		result.TeacherBusy = append(result.TeacherBusy, occurrences...)
	}

	lessons := v.lessons
	SortLessons(lessons)
	for _, l := range lessons {
		if l.Type == model.LessonTypeCancelled {
			continue
		}
		start, err := availability.StartOf(l.Date, l.Time)
		if err != nil || start.Before(from) || !start.Before(to) {
			continue
		}
		interval := s.interval(start)

		if l.StudentID != studentID {
			result.TeacherBusy = append(result.TeacherBusy, interval)
			continue
		}
		result.StudentBusy = append(result.StudentBusy, interval)
		result.Lessons = append(result.Lessons, model.CalendarLesson{
			ID:          l.ID,
			Title:       lessonTitle(l),
			StartTime:   interval.Start,
			EndTime:     interval.End,
			IsRegular:   l.IsRegular(),
			TeacherName: v.settings.TeacherName,
		})
	}

	return result, nil
}

// Upcoming ближайшие будущие уроки ученика, не больше UpcomingLimit
func (s *StudentService) Upcoming(ctx context.Context, studentID string) (*model.UpcomingLessons, error) {
	v, err := s.view(ctx, studentID)
	if err != nil {
		return nil, err
	}

	lessons := v.lessons
	SortLessons(lessons)

	result := &model.UpcomingLessons{Lessons: []model.UpcomingLesson{}}
	for _, l := range lessons {
		if len(result.Lessons) >= s.opts.UpcomingLimit {
			break
		}
		if l.StudentID != studentID || l.Type == model.LessonTypeCancelled {
			continue
		}
		start, err := availability.StartOf(l.Date, l.Time)
		if err != nil || !start.After(v.now) {
			continue
		}
		interval := s.interval(start)
		result.Lessons = append(result.Lessons, model.UpcomingLesson{
			ID:          l.ID,
			TeacherName: v.settings.TeacherName,
			StartTime:   interval.Start,
			EndTime:     interval.End,
			IsRegular:   l.IsRegular(),
		})
	}

	return result, nil
}

// AvailableDates даты с сегодняшней на weeksAhead недель вперёд, в которые
// есть хотя бы одно доступное время. weeksAhead <= 0 заменяется настройкой,
// больше availability.MaxWeeksAhead не допускается.
func (s *StudentService) AvailableDates(ctx context.Context, studentID string, weeksAhead int) (*model.AvailableDates, error) {
	if weeksAhead <= 0 {
		weeksAhead = s.opts.WeeksAhead
	}
	if weeksAhead > availability.MaxWeeksAhead {
		return nil, model.NewValidationError("weeks_ahead",
			fmt.Sprintf("Можно смотреть не больше %d недель вперёд", availability.MaxWeeksAhead))
	}

	v, err := s.view(ctx, studentID)
	if err != nil {
		return nil, err
	}

	result := &model.AvailableDates{AvailableDates: []model.AvailableDate{}}
	for day := v.today; day.Before(v.today.AddDate(0, 0, 7*weeksAhead)); day = day.AddDate(0, 0, 1) {
		for _, slot := range s.slots(v, day) {
			if slot.IsAvailable {
				result.AvailableDates = append(result.AvailableDates, model.AvailableDate{Date: availability.FormatDate(day)})
				break
			}
		}
	}

	return result, nil
}

// TimeSlots времена начала в рабочем окне на дату с признаком доступности
func (s *StudentService) TimeSlots(ctx context.Context, studentID, date string) (*model.TimeSlots, error) {
	day, err := availability.ParseDate(date)
	if err != nil {
		return nil, err
	}

	v, err := s.view(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &model.TimeSlots{Date: date, TimeSlots: s.slots(v, day)}, nil
}

// slots время доступно, если стартовая ячейка отмечена свободной, урок
// целиком помещается в незанятые ячейки и начало ещё не прошло
func (s *StudentService) slots(v *studentView, day time.Time) []model.TimeSlot {
	date := availability.FormatDate(day)
	var lessons []model.Lesson
	for _, l := range v.lessons {
		if l.Date == date && l.Type != model.LessonTypeCancelled {
			lessons = append(lessons, l)
		}
	}

	times := availability.GridTimes(v.settings.WorkHours)
	slots := make([]model.TimeSlot, 0, len(times))
	for _, m := range times {
		start := day.Add(time.Duration(m) * time.Minute)
		slots = append(slots, model.TimeSlot{
			Time:        availability.FormatClock(m),
			IsAvailable: start.After(v.now) && s.classifier.Bookable(day, m, lessons, v.snapshot.RegularLessons, v.snapshot.FreeSlots),
		})
	}
	return slots
}

// Book записывает ученика на время, которое TimeSlots показал бы доступным.
// Доступность проверяется под блокировкой уроков преподавателя, поэтому
// два ученика не займут одно окно.
func (s *StudentService) Book(ctx context.Context, studentID string, req model.BookRequest) (*model.BookResult, error) {
	date, clock, err := availability.SplitDateTime(req.StartTime)
	if err != nil {
		return nil, model.NewValidationError("start_time", "Некорректные дата и время")
	}
	start, err := availability.StartOf(date, clock)
	if err != nil {
		return nil, err
	}
	day := availability.DateOf(start)
	minutes := start.Hour()*60 + start.Minute()

	v, err := s.view(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !start.After(v.now) {
		return nil, model.NewValidationError("start_time", "Нельзя записаться на прошедшее время")
	}
	if !slices.Contains(availability.GridTimes(v.settings.WorkHours), minutes) {
		return nil, model.NewValidationError("start_time", "Время вне рабочих часов преподавателя")
	}

	name := req.Student
	if name == "" {
		name = studentID
	}
	lessonType := model.LessonTypeSingle
	if req.IsRegular {
		lessonType = model.LessonTypeRegular
	}

	store := s.lessons.For(v.teacherID)
	lesson, err := store.newLesson(model.LessonInput{
		StudentID: studentID,
		Date:      date,
		Time:      clock,
		Student:   name,
		Topic:     req.Topic,
		Type:      lessonType,
	})
	if err != nil {
		return nil, err
	}

	err = store.modify(ctx, func(lessons []model.Lesson) ([]model.Lesson, error) {
		snapshot, err := s.availability.Snapshot(ctx, v.teacherID)
		if err != nil {
			return nil, err
		}

		var dayLessons []model.Lesson
		for _, l := range lessons {
			if l.Date == date && l.Type != model.LessonTypeCancelled {
				dayLessons = append(dayLessons, l)
			}
		}
		if !s.classifier.Bookable(day, minutes, dayLessons, snapshot.RegularLessons, snapshot.FreeSlots) {
			return nil, model.NewValidationError("start_time", "Это время недоступно для записи")
		}
		return append(lessons, *lesson), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lesson booked",
		zap.String("teacher_id", v.teacherID),
		zap.String("student_id", studentID),
		zap.String("lesson_id", lesson.ID),
		zap.String("start", date+" "+clock),
		zap.Bool("regular", req.IsRegular),
	)

	return &model.BookResult{Message: "Урок успешно забронирован", Lesson: lesson}, nil
}

// Reschedule переносит урок ученика. Для регулярного урока с флагом
// reschedule_series переносятся все уроки серии начиная с этого.
// Пересечения с другими уроками не проверяются.
func (s *StudentService) Reschedule(ctx context.Context, studentID, lessonID string, req model.RescheduleRequest) (*model.RescheduleResult, error) {
	result, err := s.reschedule(ctx, studentID, lessonID, req)
	if s.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		s.metrics.Reschedules.WithLabelValues(string(req.TransferType), outcome).Inc()
		if err == nil {
			s.metrics.LessonsMoved.Add(float64(len(result.Moved)))
		}
	}
	return result, err
}

func (s *StudentService) reschedule(ctx context.Context, studentID, lessonID string, req model.RescheduleRequest) (*model.RescheduleResult, error) {
	if req.TransferType == "" {
		req.TransferType = model.TransferNearest
	}
	if !req.TransferType.Valid() {
		return nil, model.NewValidationError("transfer_type", "Неизвестный тип переноса")
	}

	newDate, newTime, err := availability.SplitDateTime(req.NewStartTime)
	if err != nil {
		return nil, err
	}
	newStart, err := availability.StartOf(newDate, newTime)
	if err != nil {
		return nil, err
	}
	if !newStart.After(wallClock(s.now().In(s.opts.Location))) {
		return nil, model.NewValidationError("new_start_time", "Нельзя перенести урок в прошлое")
	}

	teacherID, err := s.TeacherOf(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var (
		original model.Lesson
		moved    []string
		series   bool
		target   model.Lesson
	)
	err = s.lessons.For(teacherID).modify(ctx, func(lessons []model.Lesson) ([]model.Lesson, error) {
		idx := -1
		for i := range lessons {
			if lessons[i].ID == lessonID && lessons[i].StudentID == studentID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, fmt.Errorf("lesson %s: %w", lessonID, model.ErrNotFound)
		}

		original = lessons[idx]
		series = req.RescheduleSeries && original.IsRegular()
		if !series {
			lessons[idx].Date = newDate
			lessons[idx].Time = newTime
			lessons[idx].Type = model.LessonTypeRescheduled
			moved = []string{lessonID}
			target = lessons[idx]
			return lessons, nil
		}

		ids, shiftErr := shiftSeries(lessons, original, newDate, newTime)
		if shiftErr != nil {
			return nil, shiftErr
		}
		moved = ids
		target = lessons[idx]
		return lessons, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lesson rescheduled",
		zap.String("teacher_id", teacherID),
		zap.String("student_id", studentID),
		zap.String("lesson_id", lessonID),
		zap.String("transfer_type", string(req.TransferType)),
		zap.Bool("series", series),
		zap.Int("moved", len(moved)),
		zap.String("new_start", newDate+" "+newTime),
	)

	s.notify(ctx, teacherID, RescheduleNotice{
		TeacherID: teacherID,
		Student:   original.Student,
		OldDate:   original.Date,
		OldTime:   original.Time,
		NewDate:   newDate,
		NewTime:   newTime,
		Series:    series,
		Moved:     len(moved),
	})

	message := "Урок успешно перенесён"
	if series {
		message = "Серия регулярных уроков перенесена, уроков: " + strconv.Itoa(len(moved))
	}

	return &model.RescheduleResult{Message: message, Lesson: &target, Moved: moved}, nil
}

// shiftSeries сдвигает уроки серии начиная с origin на ту же разницу в днях
// и ставит новое время. Серия: регулярные уроки того же ученика в тот же
// день недели и то же время.
func shiftSeries(lessons []model.Lesson, origin model.Lesson, newDate, newTime string) ([]string, error) {
	originDay, err := availability.ParseDate(origin.Date)
	if err != nil {
		return nil, err
	}
	originTime, ok := availability.StoredClockMinutes(origin.Time)
	if !ok {
		return nil, model.NewValidationError("time", "Некорректное время урока")
	}
	targetDay, err := availability.ParseDate(newDate)
	if err != nil {
		return nil, err
	}
	offset := int(targetDay.Sub(originDay).Hours() / 24)

	var moved []string
	for i := range lessons {
		l := &lessons[i]
		if !l.IsRegular() || l.StudentID != origin.StudentID || l.Date < origin.Date {
			continue
		}
		day, err := availability.ParseDate(l.Date)
		if err != nil || day.Weekday() != originDay.Weekday() {
			continue
		}
		if start, ok := availability.StoredClockMinutes(l.Time); !ok || start != originTime {
			continue
		}

		l.Date = availability.FormatDate(day.AddDate(0, 0, offset))
		l.Time = newTime
		moved = append(moved, l.ID)
	}
	return moved, nil
}

func (s *StudentService) notify(ctx context.Context, teacherID string, notice RescheduleNotice) {
	if s.notifier == nil {
		return
	}

	settings, err := s.availability.Settings(ctx, teacherID)
	if err != nil {
		s.logger.Warn("Failed to load settings for notification", zap.String("teacher_id", teacherID), zap.Error(err))
		return
	}
	if settings.TelegramChatID == 0 {
		return
	}

	result := "sent"
	if err := s.notifier.NotifyReschedule(ctx, settings.TelegramChatID, notice); err != nil {
		result = "failed"
		s.logger.Warn("Failed to notify teacher", zap.String("teacher_id", teacherID), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.Notifications.WithLabelValues(result).Inc()
	}
}

func (s *StudentService) interval(start time.Time) model.Interval {
	return model.Interval{
		Start: start.Format(availability.DateTimeLayout),
		End:   start.Add(time.Duration(s.lessons.lessonDuration) * time.Minute).Format(availability.DateTimeLayout),
	}
}

func lessonTitle(l model.Lesson) string {
	if l.Topic != "" {
		return l.Topic
	}
	return "Урок"
}

// wallClock переносит показания часов в UTC без изменения, как у дат уроков
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
