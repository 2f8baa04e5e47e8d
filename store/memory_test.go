package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperror "github.com/chatstack/uploads-service/internal/errors"
)

const testBucket = "test-bucket"

func newTestStore(t *testing.T) *MemoryObjectStore {
	t.Helper()

	s := NewMemoryObjectStore()
	require.NoError(t, s.EnsureBucket(context.Background(), testBucket))
	return s
}

func TestChunkKeyLayout(t *testing.T) {
	require.Equal(t,
		"chunks/123-abc/456-file.bin.part7",
		ChunkKey("123-abc", "456-file.bin", 7),
	)
	require.Equal(t, "chunks/123-abc/", ChunkPrefix("123-abc"))
}

func TestMemoryStorePutStat(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testBucket, "a", []byte("hello"), "text/plain"))

	info, err := s.Stat(ctx, testBucket, "a")
	require.NoError(t, err)
	require.Equal(t, int64(5), info.Size)
	require.NotEmpty(t, info.ETag)

	// same bytes, same etag
	require.NoError(t, s.Put(ctx, testBucket, "b", []byte("hello"), "text/plain"))
	other, err := s.Stat(ctx, testBucket, "b")
	require.NoError(t, err)
	require.Equal(t, info.ETag, other.ETag)

	_, err = s.Stat(ctx, testBucket, "missing")
	require.Error(t, err)
}

func TestMemoryStoreComposeConcatenatesInOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testBucket, "p1", []byte("aaa"), ""))
	require.NoError(t, s.Put(ctx, testBucket, "p2", []byte("bb"), ""))
	require.NoError(t, s.Put(ctx, testBucket, "p3", []byte("c"), ""))

	require.NoError(t, s.Compose(ctx, testBucket, "final", []string{"p1", "p2", "p3"}))

	data, ok := s.GetObject(testBucket, "final")
	require.True(t, ok)
	require.Equal(t, []byte("aaabbc"), data)
}

func TestMemoryStoreComposeFailsOnMissingSource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testBucket, "p1", []byte("aaa"), ""))

	err := s.Compose(ctx, testBucket, "final", []string{"p1", "missing"})
	require.Error(t, err)

	_, ok := s.GetObject(testBucket, "final")
	require.False(t, ok, "failed compose must not materialize the destination")
}

func TestMemoryStoreComposeRejectsEmptySourceList(t *testing.T) {
	s := newTestStore(t)

	err := s.Compose(context.Background(), testBucket, "final", nil)
	require.ErrorIs(t, err, apperror.ErrEmptyCompose)
}

func TestMemoryStoreDeleteAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testBucket, "chunks/u1/f.part1", []byte("x"), ""))
	require.NoError(t, s.Put(ctx, testBucket, "chunks/u1/f.part2", []byte("y"), ""))
	require.NoError(t, s.Put(ctx, testBucket, "chunks/u2/f.part1", []byte("z"), ""))

	infos, err := s.List(ctx, testBucket, "chunks/u1/")
	require.NoError(t, err)
	require.Len(t, infos, 2)

	require.NoError(t, s.Delete(ctx, testBucket, []string{"chunks/u1/f.part1", "chunks/u1/f.part2"}))
	// deleting an absent key is a no-op
	require.NoError(t, s.Delete(ctx, testBucket, []string{"chunks/u1/f.part1"}))

	infos, err = s.List(ctx, testBucket, "chunks/")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Equal(t, "chunks/u2/f.part1", infos[0].Key)
}

func TestMemoryStorePresign(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, testBucket, "obj", []byte("x"), ""))

	url, err := s.Presign(ctx, testBucket, "obj", 24*time.Hour)
	require.NoError(t, err)
	require.Contains(t, url, "obj")

	_, err = s.Presign(ctx, testBucket, "missing", time.Hour)
	require.Error(t, err)
}
