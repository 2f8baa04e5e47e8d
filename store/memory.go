package store

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	apperror "github.com/chatstack/uploads-service/internal/errors"
)

type memObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// MemoryObjectStore is an in-process ObjectStore with the same observable
// semantics as the S3 adapter: etags are content hashes, compose is
// all-or-nothing and fails on a missing source, deletes of absent keys are
// no-ops. Used by the test suites; safe for concurrent use.
type MemoryObjectStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string]memObject
}

func NewMemoryObjectStore() *MemoryObjectStore {
	return &MemoryObjectStore{
		buckets: make(map[string]map[string]memObject),
	}
}

func (m *MemoryObjectStore) IsReady(context.Context) error { return nil }

func (m *MemoryObjectStore) Name() string { return "Memory[objects]" }

func (m *MemoryObjectStore) EnsureBucket(_ context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.buckets[bucket]; !ok {
		m.buckets[bucket] = make(map[string]memObject)
	}
	return nil
}

func (m *MemoryObjectStore) Put(_ context.Context, bucket, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	objects, ok := m.buckets[bucket]
	if !ok {
		return fmt.Errorf("bucket %q does not exist", bucket)
	}

	objects[key] = memObject{
		data:         bytes.Clone(data),
		contentType:  contentType,
		lastModified: time.Now(),
	}
	return nil
}

func (m *MemoryObjectStore) Stat(_ context.Context, bucket, key string) (ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.buckets[bucket][key]
	if !ok {
		return ObjectInfo{}, fmt.Errorf("stat object %q: not found", key)
	}
	return m.info(key, obj), nil
}

func (m *MemoryObjectStore) Compose(_ context.Context, bucket, destKey string, sourceKeys []string) error {
	if len(sourceKeys) == 0 {
		return apperror.ErrEmptyCompose
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	objects, ok := m.buckets[bucket]
	if !ok {
		return fmt.Errorf("bucket %q does not exist", bucket)
	}

	var composed []byte
	for _, src := range sourceKeys {
		obj, ok := objects[src]
		if !ok {
			return fmt.Errorf("compose source %q: not found", src)
		}
		composed = append(composed, obj.data...)
	}

	objects[destKey] = memObject{
		data:         composed,
		lastModified: time.Now(),
	}
	return nil
}

func (m *MemoryObjectStore) Delete(_ context.Context, bucket string, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	objects, ok := m.buckets[bucket]
	if !ok {
		return fmt.Errorf("bucket %q does not exist", bucket)
	}

	for _, key := range keys {
		delete(objects, key)
	}
	return nil
}

func (m *MemoryObjectStore) List(_ context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	objects, ok := m.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("bucket %q does not exist", bucket)
	}

	var infos []ObjectInfo
	for key, obj := range objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, m.info(key, obj))
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func (m *MemoryObjectStore) Presign(_ context.Context, bucket, key string, expiry time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.buckets[bucket][key]; !ok {
		return "", fmt.Errorf("presign %q: not found", key)
	}
	return fmt.Sprintf("https://storage.invalid/%s/%s?X-Expires=%d", bucket, key, int(expiry.Seconds())), nil
}

// GetObject exposes raw object bytes for test assertions; not part of the
// ObjectStore surface.
func (m *MemoryObjectStore) GetObject(bucket, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.buckets[bucket][key]
	if !ok {
		return nil, false
	}
	return bytes.Clone(obj.data), true
}

// SetLastModified backdates an object so sweeper tests can age chunks.
func (m *MemoryObjectStore) SetLastModified(bucket, key string, t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if obj, ok := m.buckets[bucket][key]; ok {
		obj.lastModified = t
		m.buckets[bucket][key] = obj
	}
}

func (m *MemoryObjectStore) info(key string, obj memObject) ObjectInfo {
	sum := md5.Sum(obj.data)
	return ObjectInfo{
		Key:          key,
		ETag:         hex.EncodeToString(sum[:]),
		Size:         int64(len(obj.data)),
		LastModified: obj.lastModified,
	}
}
