package services

import (
	"bytes"
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	apperror "github.com/chatstack/uploads-service/internal/errors"
	"github.com/chatstack/uploads-service/queues"
	"github.com/chatstack/uploads-service/store"
)

type pipeline struct {
	objects  *store.MemoryObjectStore
	sessions *SessionServiceImpl
	chunks   *UploadServiceImpl
	finalize *FinalizeServiceImpl
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()

	objects := store.NewMemoryObjectStore()
	l := newTestLogger()

	return &pipeline{
		objects:  objects,
		sessions: NewSessionServiceImpl(objects, UploadBucket, l),
		chunks:   NewUploadServiceImpl(objects, UploadBucket, l),
		finalize: NewFinalizeServiceImpl(objects, UploadBucket, queues.NoopUploadNotify{}, l),
	}
}

// uploadChunks splits payload into chunkSize ranges and runs the chunk
// calls, returning the acknowledged parts.
func (p *pipeline) uploadChunks(t *testing.T, uploadID, objectName string, payload []byte, chunkSize int) []Part {
	t.Helper()
	ctx := context.Background()

	var parts []Part
	for start, partNumber := 0, 1; start < len(payload); start, partNumber = start+chunkSize, partNumber+1 {
		end := min(start+chunkSize, len(payload))

		res, err := p.chunks.PutChunk(ctx, uploadID, objectName, partNumber, payload[start:end])
		require.NoError(t, err)
		require.Equal(t, partNumber, res.PartNumber)
		require.NotEmpty(t, res.ETag)

		parts = append(parts, Part{PartNumber: res.PartNumber, ETag: res.ETag})
	}
	return parts
}

// Mirrors the 60 MiB / 25 MiB scenario at a byte scale: 60 bytes in 25-byte
// chunks give parts of 25, 25 and 10 bytes.
func TestCompleteRoundTrip(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	payload := bytes.Repeat([]byte("0123456789"), 6)
	require.Len(t, payload, 60)

	res, err := p.sessions.Init(ctx, "myfile.bin", "application/octet-stream")
	require.NoError(t, err)

	parts := p.uploadChunks(t, res.UploadID, res.ObjectName, payload, 25)
	require.Len(t, parts, 3)

	final, err := p.finalize.Complete(ctx, res.UploadID, res.ObjectName, parts)
	require.NoError(t, err)
	require.Equal(t, res.ObjectName, final.Pathname)
	require.NotEmpty(t, final.URL)

	data, ok := p.objects.GetObject(UploadBucket, res.ObjectName)
	require.True(t, ok)
	require.Equal(t, payload, data)

	info, err := p.objects.Stat(ctx, UploadBucket, res.ObjectName)
	require.NoError(t, err)
	require.Equal(t, int64(60), info.Size)
}

func TestCompleteIsOrderIndependent(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	payload := []byte("the quick brown fox jumps over the lazy dog")

	res, err := p.sessions.Init(ctx, "fox.txt", "")
	require.NoError(t, err)

	parts := p.uploadChunks(t, res.UploadID, res.ObjectName, payload, 7)

	rand.Shuffle(len(parts), func(i, j int) {
		parts[i], parts[j] = parts[j], parts[i]
	})

	_, err = p.finalize.Complete(ctx, res.UploadID, res.ObjectName, parts)
	require.NoError(t, err)

	data, ok := p.objects.GetObject(UploadBucket, res.ObjectName)
	require.True(t, ok)
	require.Equal(t, payload, data)
}

func TestCompleteCleansUpChunks(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	res, err := p.sessions.Init(ctx, "clean.bin", "")
	require.NoError(t, err)

	parts := p.uploadChunks(t, res.UploadID, res.ObjectName, []byte("abcdef"), 2)

	_, err = p.finalize.Complete(ctx, res.UploadID, res.ObjectName, parts)
	require.NoError(t, err)

	infos, err := p.objects.List(ctx, UploadBucket, store.ChunkPrefix(res.UploadID))
	require.NoError(t, err)
	require.Empty(t, infos)
}

func TestCompleteRejectsGappedPartSet(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	res, err := p.sessions.Init(ctx, "gap.bin", "")
	require.NoError(t, err)

	parts := p.uploadChunks(t, res.UploadID, res.ObjectName, []byte("abcdef"), 2)
	require.Len(t, parts, 3)

	// part 2 missing
	_, err = p.finalize.Complete(ctx, res.UploadID, res.ObjectName, []Part{parts[0], parts[2]})
	require.ErrorIs(t, err, apperror.ErrBadPartSet)

	// validation fires before any store call: chunks are untouched
	infos, err := p.objects.List(ctx, UploadBucket, store.ChunkPrefix(res.UploadID))
	require.NoError(t, err)
	require.Len(t, infos, 3)
}

func TestCompleteRejectsDuplicatePartNumbers(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	res, err := p.sessions.Init(ctx, "dup.bin", "")
	require.NoError(t, err)

	parts := p.uploadChunks(t, res.UploadID, res.ObjectName, []byte("abcd"), 2)

	_, err = p.finalize.Complete(ctx, res.UploadID, res.ObjectName, []Part{parts[0], parts[0]})
	require.ErrorIs(t, err, apperror.ErrBadPartSet)
}

func TestCompleteRejectsEmptyPartSet(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	res, err := p.sessions.Init(ctx, "empty.bin", "")
	require.NoError(t, err)

	_, err = p.finalize.Complete(ctx, res.UploadID, res.ObjectName, nil)
	require.ErrorIs(t, err, apperror.ErrEmptyPartSet)
}

func TestChunkRetryIsIdempotent(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	res, err := p.sessions.Init(ctx, "retry.bin", "")
	require.NoError(t, err)

	first, err := p.chunks.PutChunk(ctx, res.UploadID, res.ObjectName, 1, []byte("same bytes"))
	require.NoError(t, err)
	second, err := p.chunks.PutChunk(ctx, res.UploadID, res.ObjectName, 1, []byte("same bytes"))
	require.NoError(t, err)
	require.Equal(t, first.ETag, second.ETag)

	infos, err := p.objects.List(ctx, UploadBucket, store.ChunkPrefix(res.UploadID))
	require.NoError(t, err)
	require.Len(t, infos, 1, "retry must leave exactly one object at the part key")

	final, err := p.finalize.Complete(ctx, res.UploadID, res.ObjectName, []Part{{PartNumber: 1, ETag: second.ETag}})
	require.NoError(t, err)
	require.Equal(t, res.ObjectName, final.Pathname)

	data, ok := p.objects.GetObject(UploadBucket, res.ObjectName)
	require.True(t, ok)
	require.Equal(t, []byte("same bytes"), data)
}

func TestConcurrentSessionsForSameFilenameStayPartitioned(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	resA, err := p.sessions.Init(ctx, "shared.bin", "")
	require.NoError(t, err)
	resB, err := p.sessions.Init(ctx, "shared.bin", "")
	require.NoError(t, err)
	require.NotEqual(t, resA.UploadID, resB.UploadID)

	payloadA := bytes.Repeat([]byte("A"), 10)
	payloadB := bytes.Repeat([]byte("B"), 10)

	partsA := p.uploadChunks(t, resA.UploadID, resA.ObjectName, payloadA, 4)
	partsB := p.uploadChunks(t, resB.UploadID, resB.ObjectName, payloadB, 4)

	// chunk keys live in disjoint session namespaces
	for _, part := range partsA {
		keyA := store.ChunkKey(resA.UploadID, resA.ObjectName, part.PartNumber)
		keyB := store.ChunkKey(resB.UploadID, resB.ObjectName, part.PartNumber)
		require.NotEqual(t, keyA, keyB)
	}

	_, err = p.finalize.Complete(ctx, resA.UploadID, resA.ObjectName, partsA)
	require.NoError(t, err)
	_, err = p.finalize.Complete(ctx, resB.UploadID, resB.ObjectName, partsB)
	require.NoError(t, err)
}
