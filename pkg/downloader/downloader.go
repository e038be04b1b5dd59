package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Qwinci/hzlauncher/pkg/errors"
	"github.com/Qwinci/hzlauncher/pkg/logging"
	"github.com/Qwinci/hzlauncher/pkg/metrics"
)

const DefaultParallel = 8

// Fetcher issues GET requests. It holds no queue of its own; batches are
// created per call with NewBatch so concurrent callers never share state.
type Fetcher struct {
	client         *http.Client
	parallel       int
	requestTimeout time.Duration
	log            zerolog.Logger
}

func New(parallel int) *Fetcher {
	if parallel < 1 {
		parallel = DefaultParallel
	}
	return &Fetcher{client: http.DefaultClient, parallel: parallel, log: logging.GetLogger("fetcher")}
}

func (f *Fetcher) WithHTTPClient(client *http.Client) *Fetcher {
	f.client = client
	return f
}

func (f *Fetcher) WithLogger(log zerolog.Logger) *Fetcher {
	f.log = log
	return f
}

// WithRequestTimeout bounds each individual request; zero means no bound
// beyond the caller's context.
func (f *Fetcher) WithRequestTimeout(timeout time.Duration) *Fetcher {
	f.requestTimeout = timeout
	return f
}

func (f *Fetcher) Parallel() int {
	return f.parallel
}

// DownloadOne fetches a single URL outside of any batch.
func (f *Fetcher) DownloadOne(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	data, err := f.get(ctx, url)
	metrics.RecordFetch(int64(len(data)), time.Since(start), err == nil)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNetwork, "failed to download %s", url)
	}

	f.log.Trace().Str("url", url).Int("bytes", len(data)).Msg("fetched")
	return data, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	if f.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.requestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error status: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
