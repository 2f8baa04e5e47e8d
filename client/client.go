// Package client implements the client side of the chunked upload
// pipeline: it splits a file into fixed-size byte ranges, drives the chunk
// uploads against the service and finalizes the session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chatstack/uploads-service/services"
	"github.com/chatstack/uploads-service/uploads"
)

// DefaultChunkSize is 25 MiB, the same threshold ShouldChunk uses.
const DefaultChunkSize = 25 << 20

const abortTimeout = 10 * time.Second

// ShouldChunk reports whether a file of the given size is worth splitting
// instead of uploading in one request.
func ShouldChunk(size int64) bool {
	return size > DefaultChunkSize
}

// ProgressFunc receives the fraction of acknowledged chunks in [0, 1].
type ProgressFunc func(fraction float64)

// ChunkCompleteFunc is called once per acknowledged chunk.
type ChunkCompleteFunc func(partNumber, totalChunks int)

type Option func(*Uploader)

func WithChunkSize(size int64) Option {
	return func(u *Uploader) { u.chunkSize = size }
}

// WithParallelism bounds how many chunk uploads are in flight at once.
// The default of 1 keeps uploads sequential.
func WithParallelism(k int) Option {
	return func(u *Uploader) { u.parallelism = k }
}

func WithHTTPClient(c *http.Client) Option {
	return func(u *Uploader) { u.http = c }
}

func WithProgress(fn ProgressFunc) Option {
	return func(u *Uploader) { u.onProgress = fn }
}

func WithChunkComplete(fn ChunkCompleteFunc) Option {
	return func(u *Uploader) { u.onChunkComplete = fn }
}

type Uploader struct {
	baseURL     string
	http        *http.Client
	chunkSize   int64
	parallelism int

	onProgress      ProgressFunc
	onChunkComplete ChunkCompleteFunc
}

func New(baseURL string, opts ...Option) *Uploader {
	u := &Uploader{
		baseURL:     baseURL,
		http:        &http.Client{},
		chunkSize:   DefaultChunkSize,
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.chunkSize < 1 {
		u.chunkSize = DefaultChunkSize
	}
	if u.parallelism < 1 {
		u.parallelism = 1
	}
	return u
}

type Result struct {
	URL         string
	Pathname    string
	ContentType string
}

// Upload runs the full pipeline: init, one chunk call per byte range with
// at most the configured parallelism in flight, then complete. Part
// numbers fully determine the storage keys, so chunks may finish in any
// order. On any chunk failure the session is aborted server-side and the
// first error is returned.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, file io.ReaderAt, size int64) (*Result, error) {
	if size <= 0 {
		return nil, errors.New("nothing to upload")
	}

	totalChunks := int((size + u.chunkSize - 1) / u.chunkSize)

	session, err := u.init(ctx, filename, contentType)
	if err != nil {
		return nil, err
	}

	parts := make([]services.Part, totalChunks)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.parallelism)

	for partNumber := 1; partNumber <= totalChunks; partNumber++ {
		g.Go(func() error {
			start := int64(partNumber-1) * u.chunkSize
			length := min(u.chunkSize, size-start)

			buf := make([]byte, length)
			if _, err := io.ReadFull(io.NewSectionReader(file, start, length), buf); err != nil {
				return fmt.Errorf("read chunk %d: %w", partNumber, err)
			}

			part, err := u.putChunk(gctx, session, partNumber, buf)
			if err != nil {
				return err
			}
			parts[partNumber-1] = *part

			done := completed.Add(1)
			if u.onProgress != nil {
				u.onProgress(float64(done) / float64(totalChunks))
			}
			if u.onChunkComplete != nil {
				u.onChunkComplete(partNumber, totalChunks)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		u.abort(session.UploadID)
		return nil, err
	}

	res, err := u.complete(ctx, session, parts)
	if err != nil {
		return nil, err
	}
	res.ContentType = contentType
	return res, nil
}

func (u *Uploader) init(ctx context.Context, filename, contentType string) (*uploads.InitResponse, error) {
	body, err := json.Marshal(uploads.InitRequest{
		Filename:    filename,
		ContentType: contentType,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/api/v1/upload/init", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var res uploads.InitResponse
	if err := u.do(req, &res); err != nil {
		return nil, fmt.Errorf("init upload: %w", err)
	}
	return &res, nil
}

func (u *Uploader) putChunk(ctx context.Context, session *uploads.InitResponse, partNumber int, data []byte) (*services.Part, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/api/v1/upload/chunk", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set(uploads.HeaderUploadID, session.UploadID)
	req.Header.Set(uploads.HeaderObjectName, session.ObjectName)
	req.Header.Set(uploads.HeaderPartNumber, strconv.Itoa(partNumber))
	req.Header.Set("Content-Type", "application/octet-stream")

	var res uploads.ChunkResponse
	if err := u.do(req, &res); err != nil {
		return nil, fmt.Errorf("upload chunk %d: %w", partNumber, err)
	}

	return &services.Part{
		PartNumber: res.PartNumber,
		ETag:       res.ETag,
	}, nil
}

func (u *Uploader) complete(ctx context.Context, session *uploads.InitResponse, parts []services.Part) (*Result, error) {
	body, err := json.Marshal(uploads.CompleteRequest{
		UploadID:   session.UploadID,
		ObjectName: session.ObjectName,
		Parts:      parts,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/api/v1/upload/complete", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var res uploads.CompleteResponse
	if err := u.do(req, &res); err != nil {
		return nil, fmt.Errorf("complete upload: %w", err)
	}

	return &Result{
		URL:      res.URL,
		Pathname: res.Pathname,
	}, nil
}

// abort is best-effort cleanup of a failed session. It runs on a fresh
// context because the upload context is usually already cancelled.
func (u *Uploader) abort(uploadID string) {
	ctx, cancel := context.WithTimeout(context.Background(), abortTimeout)
	defer cancel()

	body, err := json.Marshal(uploads.AbortRequest{UploadID: uploadID})
	if err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/api/v1/upload/abort", bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	var res uploads.AbortResponse
	_ = u.do(req, &res)
}

func (u *Uploader) do(req *http.Request, out any) error {
	resp, err := u.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var httpErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&httpErr); err == nil && httpErr.Error != "" {
			return fmt.Errorf("%s: %s", resp.Status, httpErr.Error)
		}
		return errors.New(resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
