package services

import (
	"context"
	"time"

	"github.com/chatstack/uploads-service/internal/logging"
	"github.com/chatstack/uploads-service/store"
)

// Sweeper garbage-collects chunk objects of sessions that never reached
// complete or abort. A client that stops mid-upload leaves its temporaries
// behind; anything under chunks/ older than the retention window is dead.
type Sweeper struct {
	objects   store.ObjectStore
	bucket    string
	interval  time.Duration
	retention time.Duration

	logger logging.Logger
}

func NewSweeper(objects store.ObjectStore, bucket string, interval, retention time.Duration, l logging.Logger) *Sweeper {
	return &Sweeper{
		objects:   objects,
		bucket:    bucket,
		interval:  interval,
		retention: retention,
		logger:    l,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Sweep(ctx)
			if err != nil {
				s.logger.Warn("chunk sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				s.logger.Info("swept orphaned chunks", "removed", removed)
			}
		}
	}
}

// Sweep deletes every chunk object older than the retention window and
// returns how many were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	chunks, err := s.objects.List(ctx, s.bucket, store.ChunkKeyRoot)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-s.retention)

	var stale []string
	for _, chunk := range chunks {
		if chunk.LastModified.Before(cutoff) {
			stale = append(stale, chunk.Key)
		}
	}

	if len(stale) == 0 {
		return 0, nil
	}

	if err := s.objects.Delete(ctx, s.bucket, stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}
