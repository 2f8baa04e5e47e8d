package store

import (
	"context"
	"fmt"
	"time"

	"github.com/chatstack/uploads-service/internal/health"
)

// ObjectInfo is the subset of object metadata the upload pipeline reads
// back: the etag acknowledges a chunk, size and mtime drive the sweeper.
type ObjectInfo struct {
	Key          string
	ETag         string
	Size         int64
	LastModified time.Time
}

// ObjectStore is the capability surface the pipeline needs from a bucketed
// object store: put/stat/compose/delete/list/presign plus idempotent bucket
// creation. Compose must produce the byte-exact concatenation of the
// sources, in order, and must be atomic from a reader's perspective.
type ObjectStore interface {
	EnsureBucket(ctx context.Context, bucket string) error
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	Stat(ctx context.Context, bucket, key string) (ObjectInfo, error)
	Compose(ctx context.Context, bucket, destKey string, sourceKeys []string) error
	Delete(ctx context.Context, bucket string, keys []string) error
	List(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	Presign(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)

	health.ReadinessCheck
}

// ChunkKeyRoot prefixes every temporary chunk object. Session state lives
// entirely in this namespace; there is no session registry anywhere else.
const ChunkKeyRoot = "chunks/"

// ChunkKey returns the temporary object key for one part of an upload
// session: chunks/{uploadId}/{objectName}.part{N}.
func ChunkKey(uploadID, objectName string, partNumber int) string {
	return fmt.Sprintf("%s%s/%s.part%d", ChunkKeyRoot, uploadID, objectName, partNumber)
}

// ChunkPrefix returns the key prefix covering every chunk of one session.
func ChunkPrefix(uploadID string) string {
	return fmt.Sprintf("%s%s/", ChunkKeyRoot, uploadID)
}
