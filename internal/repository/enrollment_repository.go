package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
	"github.com/Freeeeeet/lesson_calendar/internal/repository/base"
)

// EnrollmentRepository связи учеников с преподавателями
type EnrollmentRepository struct {
	*base.Repository
}

// NewEnrollmentRepository создаёт репозиторий
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{Repository: base.NewRepository(pool)}
}

// Upsert привязывает ученика к преподавателю, заменяя прежнюю привязку
func (r *EnrollmentRepository) Upsert(ctx context.Context, enrollment *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, teacher_id)
		VALUES ($1, $2)
		ON CONFLICT (student_id) DO UPDATE SET teacher_id = EXCLUDED.teacher_id
		RETURNING created_at
	`

	_, err := r.QueryOne(ctx, query, []any{enrollment.StudentID, enrollment.TeacherID}, &enrollment.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert enrollment: %w", err)
	}

	return nil
}

// GetByStudentID получает привязку ученика
func (r *EnrollmentRepository) GetByStudentID(ctx context.Context, studentID string) (*model.Enrollment, error) {
	query := `
		SELECT student_id, teacher_id, created_at
		FROM enrollments
		WHERE student_id = $1
	`

	var e model.Enrollment
	found, err := r.QueryOne(ctx, query, []any{studentID}, &e.StudentID, &e.TeacherID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &e, nil
}

// GetByTeacherID получает всех учеников преподавателя
func (r *EnrollmentRepository) GetByTeacherID(ctx context.Context, teacherID string) ([]*model.Enrollment, error) {
	query := `
		SELECT student_id, teacher_id, created_at
		FROM enrollments
		WHERE teacher_id = $1
		ORDER BY created_at
	`

	rows, err := r.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get enrollments by teacher: %w", err)
	}
	defer rows.Close()

	var enrollments []*model.Enrollment
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(&e.StudentID, &e.TeacherID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, &e)
	}

	return enrollments, rows.Err()
}
