package downloader

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Qwinci/hzlauncher/pkg/errors"
	"github.com/Qwinci/hzlauncher/pkg/metrics"
)

type Request[K comparable] struct {
	ID  K
	URL string
}

// Result pairs a queued request with either its body or its error.
type Result[K comparable] struct {
	ID   K
	URL  string
	Data []byte
	Err  error
}

// Batch is a queue of requests keyed by a caller-chosen correlation type.
// It is not safe for concurrent use; create one per operation.
type Batch[K comparable] struct {
	fetcher *Fetcher
	pending []Request[K]
}

func NewBatch[K comparable](f *Fetcher) *Batch[K] {
	return &Batch[K]{fetcher: f}
}

func (b *Batch[K]) Add(id K, url string) {
	b.pending = append(b.pending, Request[K]{ID: id, URL: url})
}

// Len is the number of requests waiting for the next DownloadAll.
func (b *Batch[K]) Len() int {
	return len(b.pending)
}

// DownloadAll drains the queue and fetches every request with at most
// Parallel() in flight. Results arrive in completion order; a failing
// request never stops its siblings.
func (b *Batch[K]) DownloadAll(ctx context.Context) []Result[K] {
	requests := b.pending
	b.pending = nil
	if len(requests) == 0 {
		return nil
	}

	results := make(chan Result[K], len(requests))

	var g errgroup.Group
	g.SetLimit(b.fetcher.parallel)
	for _, r := range requests {
		g.Go(func() error {
			start := time.Now()
			data, err := b.fetcher.get(ctx, r.URL)
			metrics.RecordFetch(int64(len(data)), time.Since(start), err == nil)

			result := Result[K]{ID: r.ID, URL: r.URL}
			if err != nil {
				result.Err = errors.Wrapf(err, errors.ErrNetwork, "failed to download %s", r.URL)
			} else {
				result.Data = data
			}
			results <- result
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	out := make([]Result[K], 0, len(requests))
	failed := 0
	for result := range results {
		if result.Err != nil {
			failed++
		}
		out = append(out, result)
	}

	b.fetcher.log.Debug().Int("total", len(out)).Int("failed", failed).Msg("batch complete")
	return out
}

// RequeueFailed queues the failed requests of a previous DownloadAll again
// and returns how many were queued.
func (b *Batch[K]) RequeueFailed(results []Result[K]) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			b.Add(r.ID, r.URL)
			n++
		}
	}
	return n
}

// FirstError returns the first failed result's error, or nil.
func FirstError[K comparable](results []Result[K]) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
