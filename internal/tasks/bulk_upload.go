package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/droplet/internal/shared"
	"golang.org/x/time/rate"
)

// BulkUploadOpts contains configuration for bulk uploads.
type BulkUploadOpts struct {
	NumWorkers int     // Concurrent readers (default: 4, max: 16)
	RateLimit  float64 // Files read per second, 0 for unlimited
}

// FileUploadResult is the outcome for one path.
type FileUploadResult struct {
	Path  string
	Name  string
	Index int // -1 when the upload failed
	Size  int64
	Error error
}

// BulkUploadResult summarizes a [BulkUpload] run.
type BulkUploadResult struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []FileUploadResult
}

type readJob struct {
	position int
	path     string
}

type readResult struct {
	position int
	data     []byte
	err      error
}

// BulkUpload reads paths concurrently and uploads them in input order.
//
// Unreadable paths are reported in the result and skipped. A cancelled context stops scheduling
// further reads; files already read are still uploaded.
func BulkUpload(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	uploader Uploader,
	paths []string,
	opts BulkUploadOpts,
) (*BulkUploadResult, error) {
	if uploader == nil {
		return nil, fmt.Errorf("%w: uploader is required", shared.ErrInvalidInput)
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 16 {
		opts.NumWorkers = 16
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	jobs := make(chan readJob, len(paths))
	reads := make(chan readResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go readWorker(ctx, &wg, jobs, reads)
	}

	producerDone := make(chan struct{})
	go func() {
		defer close(producerDone)
		defer close(jobs)
		for i, path := range paths {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			sendProgress(prog, readFileUpdate(i+1, len(paths), path))
			jobs <- readJob{position: i, path: path}
		}
	}()

	go func() {
		wg.Wait()
		close(reads)
	}()

	ordered := make([]*readResult, len(paths))
	for r := range reads {
		ordered[r.position] = &r
	}
	<-producerDone

	result := &BulkUploadResult{Total: len(paths), Results: make([]FileUploadResult, 0, len(paths))}
	for i, path := range paths {
		res := FileUploadResult{Path: path, Name: filepath.Base(path), Index: -1}

		switch r := ordered[i]; {
		case r == nil:
			res.Error = fmt.Errorf("not read: %w", context.Cause(ctx))
		case r.err != nil:
			res.Error = r.err
		default:
			res.Index = uploader.UploadFile(res.Name, r.data)
			res.Size = int64(len(r.data))
		}

		if res.Error != nil {
			result.Failed++
			sendProgress(prog, uploadFailedUpdate(i+1, len(paths), path, res.Error))
		} else {
			result.Succeeded++
			sendProgress(prog, uploadedUpdate(i+1, len(paths), res.Name, res.Index))
		}
		result.Results = append(result.Results, res)
	}

	return result, nil
}

// readWorker reads files from the jobs channel.
func readWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan readJob, reads chan<- readResult) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		data, err := readRegularFile(job.path)
		reads <- readResult{position: job.position, data: data, err: err}
	}
}

// readRegularFile reads path, rejecting directories and other non-regular files.
func readRegularFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
