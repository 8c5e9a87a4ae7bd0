// Package batch drives the conversion core over many files with a worker
// pool. It is the caller layer the core deliberately does not model: it
// owns file reads, output writes and skip-and-continue error policy.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"dicom2png/convert"
	"dicom2png/storage"

	"github.com/dustin/go-humanize"
	"github.com/enriquebris/goconcurrentqueue"
	"go.uber.org/zap"
)

// Summary totals one batch run.
type Summary struct {
	Converted int
	Failed    int
	BytesOut  int64
}

type Runner struct {
	queue   *goconcurrentqueue.FIFO
	workers int
	outDir  string
	store   *storage.MinIOStorage // optional upload sink
	logger  *zap.Logger
}

// NewRunner builds a runner writing into outDir. workers <= 0 means one
// worker per CPU, matching what the desktop tool this replaces did.
func NewRunner(workers int, outDir string, store *storage.MinIOStorage, logger *zap.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		queue:   goconcurrentqueue.NewFIFO(),
		workers: workers,
		outDir:  outDir,
		store:   store,
		logger:  logger,
	}
}

// Add enqueues input file paths.
func (r *Runner) Add(paths ...string) {
	for _, p := range paths {
		_ = r.queue.Enqueue(p)
	}
}

// Run drains the queue and blocks until every queued file has been
// attempted. A failing file is logged with its error kind and skipped;
// one bad file never aborts the batch. Cancelling ctx stops workers from
// picking up further files; in-flight conversions run to completion.
func (r *Runner) Run(ctx context.Context) Summary {
	var sum Summary

	if err := os.MkdirAll(r.outDir, 0755); err != nil {
		r.logger.Error("create output directory", zap.String("dir", r.outDir), zap.Error(err))
		sum.Failed = r.queue.GetLen()
		return sum
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				item, err := r.queue.Dequeue()
				if err != nil {
					// Queue drained.
					return
				}
				n, err := r.convertOne(item.(string))
				mu.Lock()
				if err != nil {
					sum.Failed++
				} else {
					sum.Converted++
					sum.BytesOut += n
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	r.logger.Info("batch finished",
		zap.Int("converted", sum.Converted),
		zap.Int("failed", sum.Failed),
		zap.String("bytes_out", humanize.Bytes(uint64(sum.BytesOut))))
	return sum
}

func (r *Runner) convertOne(path string) (int64, error) {
	base := filepath.Base(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		r.logger.Error("read input", zap.String("file", base), zap.Error(err))
		return 0, err
	}

	res, err := convert.Convert(raw)
	if err != nil {
		r.logger.Error("convert", zap.String("file", base), zap.Error(err))
		return 0, err
	}

	// Truncated-hash names can collide in theory; last writer wins, the
	// same policy the original tool applied to duplicate inputs.
	outPath := filepath.Join(r.outDir, res.Name)
	if err := os.WriteFile(outPath, res.PNG, 0644); err != nil {
		r.logger.Error("write output", zap.String("file", res.Name), zap.Error(err))
		return 0, err
	}

	if r.store != nil {
		if err := r.store.StoreFile(res.Name, res.PNG); err != nil {
			// Upload is best-effort on top of the local write.
			r.logger.Error("store output", zap.String("file", res.Name), zap.Error(err))
		}
	}

	r.logger.Info("converted",
		zap.String("file", base),
		zap.String("output", res.Name),
		zap.String("size", humanize.Bytes(uint64(len(res.PNG)))))
	return int64(len(res.PNG)), nil
}
