package services

import (
	"context"
	"sort"
	"time"

	apperror "github.com/chatstack/uploads-service/internal/errors"
	"github.com/chatstack/uploads-service/internal/logging"
	"github.com/chatstack/uploads-service/queues"
	"github.com/chatstack/uploads-service/store"
)

// Retrieval URLs stay valid for 24 hours from issuance.
const retrievalURLTTL = 24 * time.Hour

type Part struct {
	PartNumber int    `json:"partNumber" example:"1"`
	ETag       string `json:"etag" example:"d41d8cd98f00b204e9800998ecf8427e"`
}

type FinalizeResult struct {
	URL      string
	Pathname string
}

// FinalizeService stitches the temporary chunk objects of a session into
// the final object and issues its retrieval URL.
type FinalizeService interface {
	Complete(ctx context.Context, uploadID, objectName string, parts []Part) (*FinalizeResult, error)
}

type FinalizeServiceImpl struct {
	objects store.ObjectStore
	bucket  string
	notify  queues.UploadNotify

	logger logging.Logger
}

func NewFinalizeServiceImpl(objects store.ObjectStore, bucket string, notify queues.UploadNotify, l logging.Logger) *FinalizeServiceImpl {
	return &FinalizeServiceImpl{
		objects: objects,
		bucket:  bucket,
		notify:  notify,
		logger:  l,
	}
}

// Complete sorts the submitted parts, rejects gapped or duplicated part
// sets, composes the chunks into the final object, then best-effort deletes
// the temporaries and presigns the result. Caller-supplied ordering is
// never trusted: a parallel splitter completes chunks out of order.
func (s *FinalizeServiceImpl) Complete(ctx context.Context, uploadID, objectName string, parts []Part) (*FinalizeResult, error) {
	if len(parts) == 0 {
		return nil, apperror.ErrEmptyPartSet
	}

	sorted := make([]Part, len(parts))
	copy(sorted, parts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PartNumber < sorted[j].PartNumber
	})

	// part numbers must be exactly 1..N; the store would otherwise compose
	// a truncated or garbled object
	for i, part := range sorted {
		if part.PartNumber != i+1 {
			return nil, apperror.ErrBadPartSet
		}
	}

	keys := make([]string, 0, len(sorted))
	for _, part := range sorted {
		keys = append(keys, store.ChunkKey(uploadID, objectName, part.PartNumber))
	}

	if err := s.objects.Compose(ctx, s.bucket, objectName, keys); err != nil {
		s.logger.Error("failed to compose final object",
			"upload_id", uploadID,
			"object_name", objectName,
			"parts", len(keys),
			"error", err,
		)
		return nil, err
	}

	// the final object is already materialized; a failed cleanup leaks
	// temporaries but must not flip the call to failure
	if err := s.objects.Delete(ctx, s.bucket, keys); err != nil {
		s.logger.Warn("failed to clean up chunk objects after compose",
			"upload_id", uploadID,
			"object_name", objectName,
			"error", err,
		)
	}

	url, err := s.objects.Presign(ctx, s.bucket, objectName, retrievalURLTTL)
	if err != nil {
		s.logger.Error("failed to presign final object",
			"upload_id", uploadID,
			"object_name", objectName,
			"error", err,
		)
		return nil, err
	}

	if err := s.notify.NotifyUploadComplete(ctx, uploadID, objectName, url); err != nil {
		s.logger.Warn("failed to send upload completion notification",
			"upload_id", uploadID,
			"object_name", objectName,
			"error", err,
		)
	}

	s.logger.Info("upload finalized",
		"upload_id", uploadID,
		"object_name", objectName,
		"parts", len(keys),
	)
	return &FinalizeResult{
		URL:      url,
		Pathname: objectName,
	}, nil
}
