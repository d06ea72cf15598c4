package repository

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedDocumentStore кэширует чтение документов, запись проходит насквозь
type CachedDocumentStore struct {
	next  DocumentStore
	cache *cache.Cache
}

// NewCachedDocumentStore оборачивает хранилище кэшем с заданным TTL
func NewCachedDocumentStore(next DocumentStore, ttl time.Duration) *CachedDocumentStore {
	return &CachedDocumentStore{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func cacheKey(teacherID string, kind DocumentKind) string {
	return string(kind) + ":" + teacherID
}

// Load получает документ из кэша или из хранилища
func (s *CachedDocumentStore) Load(ctx context.Context, teacherID string, kind DocumentKind) ([]byte, error) {
	key := cacheKey(teacherID, kind)
	if cached, found := s.cache.Get(key); found {
		return append([]byte(nil), cached.([]byte)...), nil
	}

	body, err := s.next.Load(ctx, teacherID, kind)
	if err != nil {
		return nil, err
	}
	if body != nil {
		s.cache.SetDefault(key, append([]byte(nil), body...))
	}
	return body, nil
}

// Save пишет в хранилище и обновляет кэш
func (s *CachedDocumentStore) Save(ctx context.Context, teacherID string, kind DocumentKind, body []byte) error {
	key := cacheKey(teacherID, kind)
	if err := s.next.Save(ctx, teacherID, kind, body); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.SetDefault(key, append([]byte(nil), body...))
	return nil
}

// TeacherIDs не кэшируется
func (s *CachedDocumentStore) TeacherIDs(ctx context.Context, kind DocumentKind) ([]string, error) {
	return s.next.TeacherIDs(ctx, kind)
}

// Flush очищает кэш
func (s *CachedDocumentStore) Flush() {
	s.cache.Flush()
}
