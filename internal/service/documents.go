package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Freeeeeet/lesson_calendar/internal/repository"
)

// loadDocument читает документ и раскладывает JSON в dst.
// Возвращает false, если документа ещё нет.
func loadDocument(ctx context.Context, store repository.DocumentStore, teacherID string, kind repository.DocumentKind, dst interface{}) (bool, error) {
	body, err := store.Load(ctx, teacherID, kind)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", kind, err)
	}
	if body == nil {
		return false, nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", kind, err)
	}
	return true, nil
}

// saveDocument сериализует документ и пишет его целиком
func saveDocument(ctx context.Context, store repository.DocumentStore, teacherID string, kind repository.DocumentKind, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", kind, err)
	}
	if err := store.Save(ctx, teacherID, kind, body); err != nil {
		return fmt.Errorf("save %s: %w", kind, err)
	}
	return nil
}

// teacherLocks сериализует чтение-изменение-запись документов одного преподавателя
type teacherLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newTeacherLocks() *teacherLocks {
	return &teacherLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *teacherLocks) lock(teacherID string) func() {
	l.mu.Lock()
	m, ok := l.locks[teacherID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[teacherID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
