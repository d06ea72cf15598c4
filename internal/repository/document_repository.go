package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/lesson_calendar/internal/repository/base"
)

// DocumentRepository хранит документы преподавателей в jsonb
type DocumentRepository struct {
	*base.Repository
}

// NewDocumentRepository создаёт репозиторий документов
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{Repository: base.NewRepository(pool)}
}

// Load получает документ целиком
func (r *DocumentRepository) Load(ctx context.Context, teacherID string, kind DocumentKind) ([]byte, error) {
	query := `
		SELECT body
		FROM teacher_documents
		WHERE teacher_id = $1 AND kind = $2
	`

	var body []byte
	found, err := r.QueryOne(ctx, query, []any{teacherID, string(kind)}, &body)
	if err != nil {
		return nil, fmt.Errorf("load %s document: %w", kind, err)
	}
	if !found {
		return nil, nil
	}

	return body, nil
}

// Save перезаписывает документ целиком
func (r *DocumentRepository) Save(ctx context.Context, teacherID string, kind DocumentKind, body []byte) error {
	query := `
		INSERT INTO teacher_documents (teacher_id, kind, body, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (teacher_id, kind) DO UPDATE
		SET body = EXCLUDED.body, updated_at = NOW()
	`

	if err := r.Exec(ctx, query, teacherID, string(kind), body); err != nil {
		return fmt.Errorf("save %s document: %w", kind, err)
	}

	return nil
}

// TeacherIDs получает всех преподавателей, у которых есть документ данного типа
func (r *DocumentRepository) TeacherIDs(ctx context.Context, kind DocumentKind) ([]string, error) {
	query := `
		SELECT teacher_id
		FROM teacher_documents
		WHERE kind = $1
		ORDER BY teacher_id
	`

	ids, err := r.QueryStrings(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}

	return ids, nil
}
