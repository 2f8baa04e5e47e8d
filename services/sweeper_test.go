package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chatstack/uploads-service/store"
)

func TestSweepRemovesOnlyStaleChunks(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	stale, err := p.sessions.Init(ctx, "stale.bin", "")
	require.NoError(t, err)
	fresh, err := p.sessions.Init(ctx, "fresh.bin", "")
	require.NoError(t, err)

	p.uploadChunks(t, stale.UploadID, stale.ObjectName, []byte("abcd"), 2)
	p.uploadChunks(t, fresh.UploadID, fresh.ObjectName, []byte("wxyz"), 2)

	// age the abandoned session past the retention window
	for part := 1; part <= 2; part++ {
		key := store.ChunkKey(stale.UploadID, stale.ObjectName, part)
		p.objects.SetLastModified(UploadBucket, key, time.Now().Add(-48*time.Hour))
	}

	sweeper := NewSweeper(p.objects, UploadBucket, time.Minute, 24*time.Hour, newTestLogger())

	removed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	infos, err := p.objects.List(ctx, UploadBucket, store.ChunkPrefix(stale.UploadID))
	require.NoError(t, err)
	require.Empty(t, infos)

	infos, err = p.objects.List(ctx, UploadBucket, store.ChunkPrefix(fresh.UploadID))
	require.NoError(t, err)
	require.Len(t, infos, 2)
}

func TestSweepWithNothingStale(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	res, err := p.sessions.Init(ctx, "fresh.bin", "")
	require.NoError(t, err)
	p.uploadChunks(t, res.UploadID, res.ObjectName, []byte("abcd"), 2)

	sweeper := NewSweeper(p.objects, UploadBucket, time.Minute, 24*time.Hour, newTestLogger())

	removed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	require.Zero(t, removed)
}
