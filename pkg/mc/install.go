package mc

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Qwinci/hzlauncher/pkg/cache"
	"github.com/Qwinci/hzlauncher/pkg/downloader"
	"github.com/Qwinci/hzlauncher/pkg/errors"
	"github.com/Qwinci/hzlauncher/pkg/metrics"
	"github.com/Qwinci/hzlauncher/pkg/types"
)

// Installation is the result of staging a version on disk.
type Installation struct {
	Detail    *types.VersionDetail
	Classpath string

	LibrariesFetched int
	ClientFetched    bool
	AssetsFetched    int
}

// libraryDest correlates a library download with the file it is written to.
type libraryDest string

// Install resolves version id and makes sure its libraries, client jar and
// assets are present locally. Files already on disk are never fetched again.
// Any failure aborts; whatever was written stays for the next attempt.
func (m *Manager) Install(ctx context.Context, id string) (*Installation, error) {
	if m.settings.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.settings.OperationTimeout)
		defer cancel()
	}

	detail, err := m.cache.VersionDetail(ctx, id, m.Manifest)
	if err != nil {
		return nil, err
	}

	inst := &Installation{Detail: detail}

	var classpath strings.Builder
	if inst.LibrariesFetched, err = m.installLibraries(ctx, detail, &classpath); err != nil {
		return nil, err
	}

	clientPath, fetched, err := m.installClient(ctx, detail)
	if err != nil {
		return nil, err
	}
	inst.ClientFetched = fetched
	classpath.WriteString(clientPath)
	inst.Classpath = classpath.String()

	if err := cache.EnsureDirs(m.layout.StandardDirs()...); err != nil {
		return nil, err
	}

	index, err := m.cache.AssetIndex(ctx, detail.AssetIndex)
	if err != nil {
		return nil, err
	}

	if inst.AssetsFetched, err = m.installAssets(ctx, index); err != nil {
		return nil, err
	}

	m.log.Info().
		Str("version", detail.ID).
		Int("libraries", inst.LibrariesFetched).
		Bool("client", inst.ClientFetched).
		Int("assets", inst.AssetsFetched).
		Msg("version installed")

	return inst, nil
}

// installLibraries appends every allowed library to classpath, in document
// order, and downloads the ones missing on disk.
func (m *Manager) installLibraries(ctx context.Context, detail *types.VersionDetail, classpath *strings.Builder) (int, error) {
	batch := downloader.NewBatch[libraryDest](m.fetcher)
	queued := make(map[libraryDest]bool)
	prefix := m.layout.LibrariesDir() + string(filepath.Separator)

	for _, library := range detail.Libraries {
		artifact := library.Downloads.Artifact
		if artifact == nil {
			m.log.Debug().Str("library", library.Name).Msg("library has no artifact, skipping")
			continue
		}

		allowed, err := m.eval.Allowed(library.Rules)
		if err != nil {
			return 0, errors.Wrapf(err, errors.ErrParse, "library %s", library.Name)
		}
		if !allowed {
			continue
		}

		// Non-unix hosts get the prefix and ';' without the artifact path.
		classpath.WriteString(prefix)
		if m.settings.Host.Unix {
			classpath.WriteString(filepath.FromSlash(artifact.Path))
			classpath.WriteByte(':')
		} else {
			classpath.WriteByte(';')
		}

		dest := libraryDest(m.layout.LibraryFile(artifact.Path))
		if queued[dest] {
			continue
		}
		exists, err := cache.Exists(string(dest))
		if err != nil {
			return 0, err
		}
		if exists {
			continue
		}

		batch.Add(dest, artifact.URL)
		queued[dest] = true
	}

	if batch.Len() == 0 {
		return 0, nil
	}

	m.log.Info().Int("count", batch.Len()).Msg("downloading libraries")
	results, fetchErr := runBatch(ctx, batch, m.settings.Retries)

	for _, r := range results {
		if err := cache.WriteFile(string(r.ID), r.Data); err != nil {
			return 0, err
		}
	}
	metrics.RecordStaged("library", len(results))

	return len(results), fetchErr
}

// installClient returns the absolute path of the version's client jar,
// downloading it first when missing.
func (m *Manager) installClient(ctx context.Context, detail *types.VersionDetail) (string, bool, error) {
	path := m.layout.ClientFile(detail.ID)
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFilesystem, "failed to resolve %s", path)
	}

	exists, err := cache.Exists(path)
	if err != nil || exists {
		return abs, false, err
	}

	m.log.Info().Str("version", detail.ID).Msg("downloading client")
	data, err := m.fetcher.DownloadOne(ctx, detail.Downloads.Client.URL)
	if err != nil {
		return "", false, err
	}
	if err := cache.WriteFile(path, data); err != nil {
		return "", false, err
	}
	metrics.RecordStaged("client", 1)

	return abs, true, nil
}

// runBatch downloads everything queued in b, giving failed items up to
// Retries more rounds. It returns only successful results; when anything
// still fails, the successes are returned together with the first error so
// callers can keep what arrived.
func runBatch[K comparable](ctx context.Context, b *downloader.Batch[K], retries int) ([]downloader.Result[K], error) {
	var ok []downloader.Result[K]
	for attempt := 0; ; attempt++ {
		results := b.DownloadAll(ctx)
		for _, r := range results {
			if r.Err == nil {
				ok = append(ok, r)
			}
		}

		err := downloader.FirstError(results)
		if err == nil {
			return ok, nil
		}
		if attempt >= retries || ctx.Err() != nil {
			return ok, err
		}
		b.RequeueFailed(results)
	}
}
