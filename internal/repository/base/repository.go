package base

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository общие методы репозиториев поверх пула pgx
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository создаёт базовый репозиторий
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// QueryOne читает одну строку в dest. Отсутствие строки не ошибка: found = false.
func (r *Repository) QueryOne(ctx context.Context, query string, args []any, dest ...any) (bool, error) {
	err := r.pool.QueryRow(ctx, query, args...).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// QueryStrings выполняет запрос с единственной текстовой колонкой
func (r *Repository) QueryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Query выполняет запрос и возвращает строки
func (r *Repository) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return r.pool.Query(ctx, query, args...)
}

// Exec выполняет команду, результат не нужен
func (r *Repository) Exec(ctx context.Context, query string, args ...any) error {
	_, err := r.pool.Exec(ctx, query, args...)
	return err
}
