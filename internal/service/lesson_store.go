package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/repository"
)

// LessonService выдаёт хранилища уроков отдельных преподавателей
type LessonService struct {
	store          repository.DocumentStore
	lessonDuration int
	locks          *teacherLocks
	now            func() time.Time
	logger         *zap.Logger
}

// NewLessonService создаёт сервис. lessonDuration записывается во все новые уроки.
func NewLessonService(store repository.DocumentStore, lessonDuration int, logger *zap.Logger) *LessonService {
	if lessonDuration <= 0 {
		lessonDuration = availability.LessonDuration
	}
	return &LessonService{
		store:          store,
		lessonDuration: lessonDuration,
		locks:          newTeacherLocks(),
		now:            time.Now,
		logger:         logger,
	}
}

// For возвращает хранилище уроков преподавателя
func (s *LessonService) For(teacherID string) *LessonStore {
	return &LessonStore{svc: s, teacherID: teacherID}
}

// LessonStore уроки одного преподавателя. Документ читается и пишется целиком.
type LessonStore struct {
	svc       *LessonService
	teacherID string
}

// TeacherID идентификатор владельца
func (ls *LessonStore) TeacherID() string {
	return ls.teacherID
}

func (ls *LessonStore) load(ctx context.Context) ([]model.Lesson, error) {
	var lessons []model.Lesson
	if _, err := loadDocument(ctx, ls.svc.store, ls.teacherID, repository.DocumentLessons, &lessons); err != nil {
		return nil, err
	}
	if lessons == nil {
		lessons = []model.Lesson{}
	}
	return lessons, nil
}

// modify выполняет fn над документом под блокировкой и сохраняет результат
func (ls *LessonStore) modify(ctx context.Context, fn func(lessons []model.Lesson) ([]model.Lesson, error)) error {
	unlock := ls.svc.locks.lock(ls.teacherID)
	defer unlock()

	lessons, err := ls.load(ctx)
	if err != nil {
		return err
	}

	updated, err := fn(lessons)
	if err != nil {
		return err
	}

	return saveDocument(ctx, ls.svc.store, ls.teacherID, repository.DocumentLessons, updated)
}

// Add создаёт урок. Пересечения с другими уроками не проверяются.
func (ls *LessonStore) Add(ctx context.Context, input model.LessonInput) (*model.Lesson, error) {
	lesson, err := ls.newLesson(input)
	if err != nil {
		return nil, err
	}

	err = ls.modify(ctx, func(lessons []model.Lesson) ([]model.Lesson, error) {
		return append(lessons, *lesson), nil
	})
	if err != nil {
		return nil, fmt.Errorf("add lesson: %w", err)
	}

	ls.svc.logger.Info("Lesson added",
		zap.String("teacher_id", ls.teacherID),
		zap.String("lesson_id", lesson.ID),
		zap.String("date", lesson.Date),
		zap.String("time", lesson.Time),
	)

	return lesson, nil
}

// newLesson проверяет ввод и заполняет поля нового урока
func (ls *LessonStore) newLesson(input model.LessonInput) (*model.Lesson, error) {
	if _, err := availability.ParseDate(input.Date); err != nil {
		return nil, err
	}
	if _, err := availability.ParseClock(input.Time); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate lesson id: %w", err)
	}

	lessonType := input.Type
	if lessonType == "" {
		lessonType = model.LessonTypeSingle
	}

	return &model.Lesson{
		ID:        id.String(),
		TeacherID: ls.teacherID,
		StudentID: input.StudentID,
		Date:      input.Date,
		Time:      input.Time,
		Duration:  ls.svc.lessonDuration,
		Student:   input.Student,
		Topic:     input.Topic,
		Type:      lessonType,
		Status:    model.LessonStatusScheduled,
		CreatedAt: ls.svc.now(),
	}, nil
}

// Get получает урок по id, model.ErrNotFound если его нет
func (ls *LessonStore) Get(ctx context.Context, id string) (*model.Lesson, error) {
	lessons, err := ls.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lessons {
		if lessons[i].ID == id {
			return &lessons[i], nil
		}
	}
	return nil, fmt.Errorf("lesson %s: %w", id, model.ErrNotFound)
}

// All возвращает все уроки в порядке хранения
func (ls *LessonStore) All(ctx context.Context) ([]model.Lesson, error) {
	return ls.load(ctx)
}

// ListByDate уроки на дату в порядке хранения, сортировка на вызывающем
func (ls *LessonStore) ListByDate(ctx context.Context, date string) ([]model.Lesson, error) {
	lessons, err := ls.load(ctx)
	if err != nil {
		return nil, err
	}

	result := []model.Lesson{}
	for _, l := range lessons {
		if l.Date == date {
			result = append(result, l)
		}
	}
	return result, nil
}

// ListRange уроки с from по to включительно, отсортированные по дате и времени
func (ls *LessonStore) ListRange(ctx context.Context, from, to string) ([]model.Lesson, error) {
	lessons, err := ls.load(ctx)
	if err != nil {
		return nil, err
	}

	result := []model.Lesson{}
	for _, l := range lessons {
		if l.Date >= from && l.Date <= to {
			result = append(result, l)
		}
	}
	SortLessons(result)
	return result, nil
}

// DayCounts количество уроков по дням месяца для месячного календаря
func (ls *LessonStore) DayCounts(ctx context.Context, year int, month time.Month) (map[string]int, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	lessons, err := ls.ListRange(ctx, availability.FormatDate(first), availability.FormatDate(last))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, l := range lessons {
		counts[l.Date]++
	}
	return counts, nil
}

// Stats сводка по урокам: всего, на неделе с днём today, регулярных и перенесённых
func (ls *LessonStore) Stats(ctx context.Context, today time.Time) (*model.LessonStats, error) {
	lessons, err := ls.load(ctx)
	if err != nil {
		return nil, err
	}

	monday := availability.WeekStart(today)
	from := availability.FormatDate(monday)
	to := availability.FormatDate(monday.AddDate(0, 0, 6))

	stats := &model.LessonStats{}
	for _, l := range lessons {
		if l.Type == model.LessonTypeCancelled {
			continue
		}
		stats.Total++
		if l.Date >= from && l.Date <= to {
			stats.ThisWeek++
		}
		switch l.Type {
		case model.LessonTypeRegular:
			stats.Regular++
		case model.LessonTypeRescheduled:
			stats.Rescheduled++
		}
	}
	return stats, nil
}

// Update накладывает заданные поля на урок без проверки значений
func (ls *LessonStore) Update(ctx context.Context, id string, patch model.LessonPatch) (*model.Lesson, error) {
	var updated model.Lesson
	err := ls.modify(ctx, func(lessons []model.Lesson) ([]model.Lesson, error) {
		for i := range lessons {
			if lessons[i].ID == id {
				patch.Apply(&lessons[i])
				updated = lessons[i]
				return lessons, nil
			}
		}
		return nil, fmt.Errorf("lesson %s: %w", id, model.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}

	ls.svc.logger.Info("Lesson updated",
		zap.String("teacher_id", ls.teacherID),
		zap.String("lesson_id", id),
	)

	return &updated, nil
}

// Delete удаляет урок. Неизвестный id не считается ошибкой.
func (ls *LessonStore) Delete(ctx context.Context, id string) error {
	removed := false
	err := ls.modify(ctx, func(lessons []model.Lesson) ([]model.Lesson, error) {
		kept := lessons[:0]
		for _, l := range lessons {
			if l.ID == id {
				removed = true
				continue
			}
			kept = append(kept, l)
		}
		return kept, nil
	})
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}

	if removed {
		ls.svc.logger.Info("Lesson deleted",
			zap.String("teacher_id", ls.teacherID),
			zap.String("lesson_id", id),
		)
	}
	return nil
}

// SortLessons сортирует уроки по дате и времени начала
func SortLessons(lessons []model.Lesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		if lessons[i].Date != lessons[j].Date {
			return lessons[i].Date < lessons[j].Date
		}
		return clockOrder(lessons[i].Time) < clockOrder(lessons[j].Time)
	})
}

func clockOrder(clock string) int {
	start, ok := availability.StoredClockMinutes(clock)
	if !ok {
		return -1
	}
	return start
}
