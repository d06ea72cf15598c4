package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/lesson_calendar/internal/availability"
	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/repository"
)

// AvailabilityService занятость и настройки преподавателя
type AvailabilityService struct {
	store        repository.DocumentStore
	lessons      *LessonService
	classifier   availability.Classifier
	defaultHours model.WorkHours
	locks        *teacherLocks
	now          func() time.Time
	logger       *zap.Logger
}

// NewAvailabilityService создаёт сервис. defaultHours попадают в настройки
// преподавателя при первом обращении.
func NewAvailabilityService(
	store repository.DocumentStore,
	lessons *LessonService,
	classifier availability.Classifier,
	defaultHours model.WorkHours,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		store:        store,
		lessons:      lessons,
		classifier:   classifier,
		defaultHours: defaultHours,
		locks:        newTeacherLocks(),
		now:          time.Now,
		logger:       logger,
	}
}

// Snapshot загружает занятость, старые ключи свободных окон нормализуются
func (s *AvailabilityService) Snapshot(ctx context.Context, teacherID string) (*model.AvailabilitySnapshot, error) {
	snapshot := model.NewAvailabilitySnapshot()
	if _, err := loadDocument(ctx, s.store, teacherID, repository.DocumentAvailability, snapshot); err != nil {
		return nil, err
	}
	if snapshot.RegularLessons == nil {
		snapshot.RegularLessons = []model.RegularLessonRule{}
	}
	snapshot.FreeSlots = availability.NormalizeFreeSlots(snapshot.FreeSlots)
	return snapshot, nil
}

// SaveSnapshot перезаписывает занятость целиком. Регулярные блоки проверяются
// так же, как при добавлении по одному; снимок с хотя бы одним неверным
// блоком не сохраняется.
func (s *AvailabilityService) SaveSnapshot(ctx context.Context, teacherID string, snapshot *model.AvailabilitySnapshot) error {
	for _, rule := range snapshot.RegularLessons {
		if err := availability.ValidateRegularLessonRule(rule); err != nil {
			return err
		}
	}

	unlock := s.locks.lock(teacherID)
	defer unlock()

	return s.saveSnapshot(ctx, teacherID, snapshot)
}

func (s *AvailabilityService) saveSnapshot(ctx context.Context, teacherID string, snapshot *model.AvailabilitySnapshot) error {
	normalized := &model.AvailabilitySnapshot{
		RegularLessons: snapshot.RegularLessons,
		FreeSlots:      availability.NormalizeFreeSlots(snapshot.FreeSlots),
	}
	if normalized.RegularLessons == nil {
		normalized.RegularLessons = []model.RegularLessonRule{}
	}

	if err := saveDocument(ctx, s.store, teacherID, repository.DocumentAvailability, normalized); err != nil {
		return err
	}

	s.logger.Debug("Availability saved",
		zap.String("teacher_id", teacherID),
		zap.Int("regular_lessons", len(normalized.RegularLessons)),
		zap.Int("free_slots", len(normalized.FreeSlots)),
	)
	return nil
}

// AddRegularLesson проверяет и добавляет регулярный блок. Дубликаты допустимы.
func (s *AvailabilityService) AddRegularLesson(ctx context.Context, teacherID string, input model.RegularLessonInput) (*model.RegularLessonRule, error) {
	rule, err := availability.NewRegularLessonRule(input, s.now())
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(teacherID)
	defer unlock()

	snapshot, err := s.Snapshot(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	snapshot.RegularLessons = append(snapshot.RegularLessons, *rule)

	if err := s.saveSnapshot(ctx, teacherID, snapshot); err != nil {
		return nil, fmt.Errorf("add regular lesson: %w", err)
	}

	s.logger.Info("Regular lesson added",
		zap.String("teacher_id", teacherID),
		zap.Int("day_of_week", rule.DayOfWeek),
		zap.String("time", rule.Time),
		zap.Int("duration", rule.Duration),
	)

	return rule, nil
}

// ClassifyCell статус одной ячейки сетки преподавателя
func (s *AvailabilityService) ClassifyCell(ctx context.Context, teacherID, date, clock string) (model.CellStatus, error) {
	day, minutes, err := parseCell(date, clock)
	if err != nil {
		return "", err
	}

	snapshot, err := s.Snapshot(ctx, teacherID)
	if err != nil {
		return "", err
	}
	lessons, err := s.lessons.For(teacherID).ListByDate(ctx, date)
	if err != nil {
		return "", err
	}

	return s.classifier.Classify(day, minutes/60, minutes%60, lessons, snapshot.RegularLessons, snapshot.FreeSlots), nil
}

// ToggleFreeSlot переключает ячейку между available и free и сохраняет результат.
// Занятые ячейки не переключаются.
func (s *AvailabilityService) ToggleFreeSlot(ctx context.Context, teacherID, date, clock string) (model.CellStatus, error) {
	day, minutes, err := parseCell(date, clock)
	if err != nil {
		return "", err
	}

	unlock := s.locks.lock(teacherID)
	defer unlock()

	// порядок блокировок: занятость, затем уроки
	lessonsUnlock := s.lessons.locks.lock(teacherID)
	defer lessonsUnlock()

	lessons, err := s.lessons.For(teacherID).ListByDate(ctx, date)
	if err != nil {
		return "", err
	}

	snapshot, err := s.Snapshot(ctx, teacherID)
	if err != nil {
		return "", err
	}

	current := s.classifier.Classify(day, minutes/60, minutes%60, lessons, snapshot.RegularLessons, snapshot.FreeSlots)
	next, err := availability.Toggle(snapshot.FreeSlots, date, minutes, current)
	if err != nil {
		return current, err
	}

	if err := s.saveSnapshot(ctx, teacherID, snapshot); err != nil {
		return current, fmt.Errorf("toggle free slot: %w", err)
	}

	s.logger.Info("Free slot toggled",
		zap.String("teacher_id", teacherID),
		zap.String("slot", availability.SlotKey(date, minutes)),
		zap.String("status", string(next)),
	)

	return next, nil
}

// WeekGrid сетка недели, в которую попадает day, в рабочих часах преподавателя
func (s *AvailabilityService) WeekGrid(ctx context.Context, teacherID string, day time.Time) (*availability.Week, error) {
	settings, err := s.Settings(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.Snapshot(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	start := availability.WeekStart(day)
	lessons, err := s.lessons.For(teacherID).ListRange(ctx,
		availability.FormatDate(start),
		availability.FormatDate(start.AddDate(0, 0, 6)),
	)
	if err != nil {
		return nil, err
	}

	week := s.classifier.BuildWeek(day, s.now(), settings.WorkHours, lessons, snapshot.RegularLessons, snapshot.FreeSlots)
	return &week, nil
}

// Settings настройки преподавателя, при отсутствии документа значения по умолчанию
func (s *AvailabilityService) Settings(ctx context.Context, teacherID string) (*model.Settings, error) {
	settings := model.DefaultSettings(teacherID, s.defaultHours)
	if _, err := loadDocument(ctx, s.store, teacherID, repository.DocumentSettings, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSettings накладывает заданные поля поверх текущих настроек
func (s *AvailabilityService) UpdateSettings(ctx context.Context, teacherID string, patch model.SettingsPatch) (*model.Settings, error) {
	if patch.WorkHours != nil {
		h := patch.WorkHours
		if h.Start < 0 || h.End > 24 || h.Start >= h.End {
			return nil, model.NewValidationError("workHours", "Некорректные рабочие часы")
		}
	}

	unlock := s.locks.lock(teacherID)
	defer unlock()

	settings, err := s.Settings(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	patch.Apply(settings)

	if err := saveDocument(ctx, s.store, teacherID, repository.DocumentSettings, settings); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}

	s.logger.Info("Settings updated", zap.String("teacher_id", teacherID))
	return settings, nil
}

// PurgePastFreeSlots удаляет отметки свободных окон с датой раньше before
// у всех преподавателей. Возвращает количество удалённых отметок.
func (s *AvailabilityService) PurgePastFreeSlots(ctx context.Context, before time.Time) (int, error) {
	teacherIDs, err := s.store.TeacherIDs(ctx, repository.DocumentAvailability)
	if err != nil {
		return 0, fmt.Errorf("list teachers: %w", err)
	}

	cutoff := availability.FormatDate(before)
	total := 0
	for _, teacherID := range teacherIDs {
		removed, err := s.purgeTeacher(ctx, teacherID, cutoff)
		if err != nil {
			return total, fmt.Errorf("purge teacher %s: %w", teacherID, err)
		}
		total += removed
	}

	return total, nil
}

func (s *AvailabilityService) purgeTeacher(ctx context.Context, teacherID, cutoff string) (int, error) {
	unlock := s.locks.lock(teacherID)
	defer unlock()

	snapshot, err := s.Snapshot(ctx, teacherID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for key := range snapshot.FreeSlots {
		// ключ начинается с YYYY-MM-DD, строки сравниваются как даты
		if key[:len(availability.DateLayout)] < cutoff {
			delete(snapshot.FreeSlots, key)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}

	return removed, s.saveSnapshot(ctx, teacherID, snapshot)
}

func parseCell(date, clock string) (time.Time, int, error) {
	day, err := availability.ParseDate(date)
	if err != nil {
		return time.Time{}, 0, err
	}
	minutes, err := availability.ParseClock(clock)
	if err != nil {
		return time.Time{}, 0, err
	}
	if minutes%availability.SlotMinutes != 0 {
		return time.Time{}, 0, model.NewValidationError("time", "Время должно быть кратно 30 минутам")
	}
	return day, minutes, nil
}
