package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperror "github.com/chatstack/uploads-service/internal/errors"
	"github.com/chatstack/uploads-service/internal/logging"
	"github.com/chatstack/uploads-service/store"
)

func newTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestInitRequiresFilename(t *testing.T) {
	objects := store.NewMemoryObjectStore()
	svc := NewSessionServiceImpl(objects, UploadBucket, newTestLogger())

	_, err := svc.Init(context.Background(), "", "text/plain")
	require.ErrorIs(t, err, apperror.ErrMissingFilename)
}

func TestInitAllocatesUniqueSessions(t *testing.T) {
	objects := store.NewMemoryObjectStore()
	svc := NewSessionServiceImpl(objects, UploadBucket, newTestLogger())
	ctx := context.Background()

	first, err := svc.Init(ctx, "file.bin", "")
	require.NoError(t, err)
	second, err := svc.Init(ctx, "file.bin", "")
	require.NoError(t, err)

	require.NotEqual(t, first.UploadID, second.UploadID)
	require.True(t, strings.HasSuffix(first.ObjectName, "-file.bin"))
	require.True(t, strings.HasSuffix(second.ObjectName, "-file.bin"))

	// init is pure allocation: the bucket exists, nothing else was written
	infos, err := objects.List(ctx, UploadBucket, "")
	require.NoError(t, err)
	require.Empty(t, infos)
}

func TestInitIsSafeToRetry(t *testing.T) {
	objects := store.NewMemoryObjectStore()
	svc := NewSessionServiceImpl(objects, UploadBucket, newTestLogger())
	ctx := context.Background()

	for range 3 {
		_, err := svc.Init(ctx, "file.bin", "")
		require.NoError(t, err)
	}
}

func TestAbortRemovesAllSessionChunks(t *testing.T) {
	objects := store.NewMemoryObjectStore()
	ctx := context.Background()
	require.NoError(t, objects.EnsureBucket(ctx, UploadBucket))

	sessions := NewSessionServiceImpl(objects, UploadBucket, newTestLogger())
	chunks := NewUploadServiceImpl(objects, UploadBucket, newTestLogger())

	res, err := sessions.Init(ctx, "doomed.bin", "")
	require.NoError(t, err)

	for part := 1; part <= 3; part++ {
		_, err := chunks.PutChunk(ctx, res.UploadID, res.ObjectName, part, []byte("data"))
		require.NoError(t, err)
	}

	// an unrelated session must survive the abort
	other, err := sessions.Init(ctx, "other.bin", "")
	require.NoError(t, err)
	_, err = chunks.PutChunk(ctx, other.UploadID, other.ObjectName, 1, []byte("keep"))
	require.NoError(t, err)

	removed, err := sessions.Abort(ctx, res.UploadID)
	require.NoError(t, err)
	require.Equal(t, 3, removed)

	infos, err := objects.List(ctx, UploadBucket, store.ChunkPrefix(res.UploadID))
	require.NoError(t, err)
	require.Empty(t, infos)

	infos, err = objects.List(ctx, UploadBucket, store.ChunkPrefix(other.UploadID))
	require.NoError(t, err)
	require.Len(t, infos, 1)
}

func TestAbortOnEmptySessionIsNoop(t *testing.T) {
	objects := store.NewMemoryObjectStore()
	ctx := context.Background()
	require.NoError(t, objects.EnsureBucket(ctx, UploadBucket))

	sessions := NewSessionServiceImpl(objects, UploadBucket, newTestLogger())

	removed, err := sessions.Abort(ctx, "never-started")
	require.NoError(t, err)
	require.Zero(t, removed)
}
