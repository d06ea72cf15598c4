package repository

import (
	"context"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

// DocumentKind тип документа преподавателя
type DocumentKind string

const (
	DocumentLessons      DocumentKind = "lessons"
	DocumentAvailability DocumentKind = "availability"
	DocumentSettings     DocumentKind = "settings"
)

// DocumentStore хранит документы преподавателя целиком, без частичных обновлений.
// Load возвращает nil, nil если документа нет.
type DocumentStore interface {
	Load(ctx context.Context, teacherID string, kind DocumentKind) ([]byte, error)
	Save(ctx context.Context, teacherID string, kind DocumentKind, body []byte) error
	TeacherIDs(ctx context.Context, kind DocumentKind) ([]string, error)
}

// EnrollmentStore связи ученик -> преподаватель.
// GetByStudentID возвращает nil, nil если ученик не привязан.
type EnrollmentStore interface {
	Upsert(ctx context.Context, enrollment *model.Enrollment) error
	GetByStudentID(ctx context.Context, studentID string) (*model.Enrollment, error)
	GetByTeacherID(ctx context.Context, teacherID string) ([]*model.Enrollment, error)
}
