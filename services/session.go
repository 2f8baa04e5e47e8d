package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperror "github.com/chatstack/uploads-service/internal/errors"
	"github.com/chatstack/uploads-service/internal/logging"
	"github.com/chatstack/uploads-service/store"
)

// UploadBucket is the bucket the chunked-upload pipeline writes to. It is a
// deployment constant, deliberately independent of the configured default
// bucket name; callers must not assume the two match.
const UploadBucket = "ai-chatbot"

type InitResult struct {
	UploadID   string
	ObjectName string
}

// SessionService allocates upload sessions and tears them down. A session
// has no durable registry: its whole state is the chunk-key namespace
// chunks/{uploadId}/ inside the store.
type SessionService interface {
	// Init validates the filename, makes sure the bucket exists and
	// allocates a unique (uploadID, objectName) pair. Pure allocation,
	// safe to retry.
	Init(ctx context.Context, filename, contentType string) (*InitResult, error)

	// Abort removes every temporary chunk object of a session and reports
	// how many were deleted.
	Abort(ctx context.Context, uploadID string) (int, error)
}

type SessionServiceImpl struct {
	objects store.ObjectStore
	bucket  string

	logger logging.Logger
}

func NewSessionServiceImpl(objects store.ObjectStore, bucket string, l logging.Logger) *SessionServiceImpl {
	return &SessionServiceImpl{
		objects: objects,
		bucket:  bucket,
		logger:  l,
	}
}

func (s *SessionServiceImpl) Init(ctx context.Context, filename, contentType string) (*InitResult, error) {
	if filename == "" {
		return nil, apperror.ErrMissingFilename
	}

	if err := s.objects.EnsureBucket(ctx, s.bucket); err != nil {
		s.logger.Error("failed to ensure upload bucket",
			"bucket", s.bucket,
			"error", err,
		)
		return nil, err
	}

	now := time.Now().UnixMilli()
	res := &InitResult{
		ObjectName: fmt.Sprintf("%d-%s", now, filename),
		// uuid keeps concurrent sessions collision-free even within one
		// millisecond
		UploadID: fmt.Sprintf("%d-%s", now, uuid.NewString()),
	}

	s.logger.Debug("upload session initialized",
		"upload_id", res.UploadID,
		"object_name", res.ObjectName,
		"content_type", contentType,
	)
	return res, nil
}

func (s *SessionServiceImpl) Abort(ctx context.Context, uploadID string) (int, error) {
	prefix := store.ChunkPrefix(uploadID)

	chunks, err := s.objects.List(ctx, s.bucket, prefix)
	if err != nil {
		s.logger.Error("failed to list session chunks",
			"upload_id", uploadID,
			"error", err,
		)
		return 0, err
	}

	if len(chunks) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		keys = append(keys, chunk.Key)
	}

	if err := s.objects.Delete(ctx, s.bucket, keys); err != nil {
		s.logger.Error("failed to delete session chunks",
			"upload_id", uploadID,
			"chunks", len(keys),
			"error", err,
		)
		return 0, err
	}

	s.logger.Info("upload session aborted",
		"upload_id", uploadID,
		"chunks_removed", len(keys),
	)
	return len(keys), nil
}
