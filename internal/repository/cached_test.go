package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*MemoryDocumentStore
	loads   int
	saveErr error
}

func (s *countingStore) Load(ctx context.Context, teacherID string, kind DocumentKind) ([]byte, error) {
	s.loads++
	return s.MemoryDocumentStore.Load(ctx, teacherID, kind)
}

func (s *countingStore) Save(ctx context.Context, teacherID string, kind DocumentKind, body []byte) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.MemoryDocumentStore.Save(ctx, teacherID, kind, body)
}

func TestCachedDocumentStore_ReadsThroughOnce(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryDocumentStore: NewMemoryDocumentStore()}
	require.NoError(t, inner.MemoryDocumentStore.Save(ctx, "t1", DocumentLessons, []byte(`[]`)))

	store := NewCachedDocumentStore(inner, time.Minute)

	for i := 0; i < 3; i++ {
		body, err := store.Load(ctx, "t1", DocumentLessons)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(body))
	}
	assert.Equal(t, 1, inner.loads)
}

func TestCachedDocumentStore_MissingIsNotCached(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryDocumentStore: NewMemoryDocumentStore()}
	store := NewCachedDocumentStore(inner, time.Minute)

	body, err := store.Load(ctx, "t1", DocumentSettings)
	require.NoError(t, err)
	assert.Nil(t, body)

	_, _ = store.Load(ctx, "t1", DocumentSettings)
	assert.Equal(t, 2, inner.loads)
}

func TestCachedDocumentStore_SaveUpdatesCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryDocumentStore: NewMemoryDocumentStore()}
	store := NewCachedDocumentStore(inner, time.Minute)

	require.NoError(t, store.Save(ctx, "t1", DocumentLessons, []byte(`[1]`)))
	body, err := store.Load(ctx, "t1", DocumentLessons)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(body))
	assert.Zero(t, inner.loads)
}

func TestCachedDocumentStore_FailedSaveDropsCache(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{MemoryDocumentStore: NewMemoryDocumentStore()}
	store := NewCachedDocumentStore(inner, time.Minute)
	require.NoError(t, store.Save(ctx, "t1", DocumentLessons, []byte(`[1]`)))

	inner.saveErr = errors.New("db down")
	require.Error(t, store.Save(ctx, "t1", DocumentLessons, []byte(`[2]`)))

	body, err := store.Load(ctx, "t1", DocumentLessons)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(body))
	assert.Equal(t, 1, inner.loads)
}
