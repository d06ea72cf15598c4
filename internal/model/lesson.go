package model

import "time"

// LessonType классифицирует урок. Это не машина состояний: тип меняется
// только при явном переносе.
type LessonType string

const (
	LessonTypeRegular     LessonType = "regular"
	LessonTypeSingle      LessonType = "single"
	LessonTypeCancelled   LessonType = "cancelled"
	LessonTypeRescheduled LessonType = "rescheduled"
)

// LessonStatusScheduled статус по умолчанию для новых уроков
const LessonStatusScheduled = "scheduled"

// Lesson запланированное занятие с учеником
type Lesson struct {
	ID        string     `json:"id"`
	TeacherID string     `json:"teacherId,omitempty"`
	StudentID string     `json:"studentId,omitempty"`
	Date      string     `json:"date"`     // YYYY-MM-DD
	Time      string     `json:"time"`     // HH:MM
	Duration  int        `json:"duration"` // в минутах, у старых записей может отличаться
	Student   string     `json:"student"`
	Topic     string     `json:"topic"`
	Type      LessonType `json:"type"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsRegular проверяет, относится ли урок к регулярной серии
func (l *Lesson) IsRegular() bool {
	return l.Type == LessonTypeRegular
}

// LessonInput данные для создания урока
type LessonInput struct {
	StudentID string     `json:"studentId"`
	Date      string     `json:"date" binding:"required"`
	Time      string     `json:"time" binding:"required"`
	Duration  int        `json:"duration"` // игнорируется, длительность всегда фиксирована
	Student   string     `json:"student" binding:"required"`
	Topic     string     `json:"topic"`
	Type      LessonType `json:"type"`
}

// LessonPatch частичное обновление урока: nil означает "не менять"
type LessonPatch struct {
	StudentID *string     `json:"studentId"`
	Date      *string     `json:"date"`
	Time      *string     `json:"time"`
	Duration  *int        `json:"duration"`
	Student   *string     `json:"student"`
	Topic     *string     `json:"topic"`
	Type      *LessonType `json:"type"`
	Status    *string     `json:"status"`
}

// Apply накладывает заданные поля поверх урока без проверки значений
func (p LessonPatch) Apply(l *Lesson) {
	if p.StudentID != nil {
		l.StudentID = *p.StudentID
	}
	if p.Date != nil {
		l.Date = *p.Date
	}
	if p.Time != nil {
		l.Time = *p.Time
	}
	if p.Duration != nil {
		l.Duration = *p.Duration
	}
	if p.Student != nil {
		l.Student = *p.Student
	}
	if p.Topic != nil {
		l.Topic = *p.Topic
	}
	if p.Type != nil {
		l.Type = *p.Type
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
}

// LessonStats сводка для календаря преподавателя. Отменённые уроки не считаются.
type LessonStats struct {
	Total       int `json:"total"`
	ThisWeek    int `json:"this_week"`
	Regular     int `json:"regular"`
	Rescheduled int `json:"rescheduled"`
}
