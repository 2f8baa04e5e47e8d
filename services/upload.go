package services

import (
	"context"

	"github.com/chatstack/uploads-service/internal/logging"
	"github.com/chatstack/uploads-service/store"
)

type ChunkResult struct {
	ETag       string
	PartNumber int
}

// UploadService accepts one chunk of an upload session and persists it as
// an independent temporary object. Writes to the same part number are
// last-writer-wins, which makes retries of a part idempotent.
type UploadService interface {
	PutChunk(ctx context.Context, uploadID, objectName string, partNumber int, data []byte) (*ChunkResult, error)
}

type UploadServiceImpl struct {
	objects store.ObjectStore
	bucket  string

	logger logging.Logger
}

func NewUploadServiceImpl(objects store.ObjectStore, bucket string, l logging.Logger) *UploadServiceImpl {
	return &UploadServiceImpl{
		objects: objects,
		bucket:  bucket,
		logger:  l,
	}
}

func (s *UploadServiceImpl) PutChunk(ctx context.Context, uploadID, objectName string, partNumber int, data []byte) (*ChunkResult, error) {
	key := store.ChunkKey(uploadID, objectName, partNumber)

	if err := s.objects.Put(ctx, s.bucket, key, data, "application/octet-stream"); err != nil {
		s.logger.Error("failed to store chunk",
			"upload_id", uploadID,
			"part_number", partNumber,
			"chunk_size", len(data),
			"error", err,
		)
		return nil, err
	}

	// the etag acknowledged to the client is the one the store assigned on
	// write, read back rather than recomputed
	info, err := s.objects.Stat(ctx, s.bucket, key)
	if err != nil {
		s.logger.Error("failed to stat stored chunk",
			"upload_id", uploadID,
			"part_number", partNumber,
			"error", err,
		)
		return nil, err
	}

	s.logger.Debug("chunk stored",
		"upload_id", uploadID,
		"part_number", partNumber,
		"chunk_size", len(data),
		"etag", info.ETag,
	)
	return &ChunkResult{
		ETag:       info.ETag,
		PartNumber: partNumber,
	}, nil
}
