package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/lesson_calendar/internal/model"
)

// MemoryDocumentStore хранит документы в памяти процесса (STORAGE=memory)
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]map[DocumentKind][]byte
}

// NewMemoryDocumentStore создаёт пустое хранилище
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string]map[DocumentKind][]byte)}
}

// Load получает копию документа
func (s *MemoryDocumentStore) Load(_ context.Context, teacherID string, kind DocumentKind) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	body, ok := s.docs[teacherID][kind]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), body...), nil
}

// Save сохраняет копию документа
func (s *MemoryDocumentStore) Save(_ context.Context, teacherID string, kind DocumentKind, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[teacherID]; !ok {
		s.docs[teacherID] = make(map[DocumentKind][]byte)
	}
	s.docs[teacherID][kind] = append([]byte(nil), body...)
	return nil
}

// TeacherIDs возвращает отсортированный список преподавателей с документом kind
func (s *MemoryDocumentStore) TeacherIDs(_ context.Context, kind DocumentKind) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, docs := range s.docs {
		if _, ok := docs[kind]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// MemoryEnrollmentStore привязки учеников в памяти процесса
type MemoryEnrollmentStore struct {
	mu          sync.RWMutex
	enrollments map[string]model.Enrollment
}

// NewMemoryEnrollmentStore создаёт пустое хранилище привязок
func NewMemoryEnrollmentStore() *MemoryEnrollmentStore {
	return &MemoryEnrollmentStore{enrollments: make(map[string]model.Enrollment)}
}

// Upsert привязывает ученика к преподавателю
func (s *MemoryEnrollmentStore) Upsert(_ context.Context, enrollment *model.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.enrollments[enrollment.StudentID]; ok {
		enrollment.CreatedAt = prev.CreatedAt
	} else {
		enrollment.CreatedAt = time.Now()
	}
	s.enrollments[enrollment.StudentID] = *enrollment
	return nil
}

// GetByStudentID получает привязку ученика
func (s *MemoryEnrollmentStore) GetByStudentID(_ context.Context, studentID string) (*model.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.enrollments[studentID]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

// GetByTeacherID получает учеников преподавателя
func (s *MemoryEnrollmentStore) GetByTeacherID(_ context.Context, teacherID string) ([]*model.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.Enrollment
	for _, e := range s.enrollments {
		if e.TeacherID == teacherID {
			e := e
			result = append(result, &e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, nil
}
