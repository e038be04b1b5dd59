// Package cache is a read-through file cache for the version manifest,
// version detail documents and asset indexes. An entry that has been
// written once is used from disk from then on.
package cache

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/Qwinci/hzlauncher/pkg/downloader"
	"github.com/Qwinci/hzlauncher/pkg/errors"
	"github.com/Qwinci/hzlauncher/pkg/logging"
	"github.com/Qwinci/hzlauncher/pkg/types"
)

// ManifestFunc supplies the manifest when a lookup needs it.
type ManifestFunc func(ctx context.Context) (*types.VersionManifest, error)

// StaticManifest returns a ManifestFunc that always yields m.
func StaticManifest(m *types.VersionManifest) ManifestFunc {
	return func(context.Context) (*types.VersionManifest, error) {
		return m, nil
	}
}

type Cache struct {
	layout      Layout
	fetcher     *downloader.Fetcher
	manifestURL string
	log         zerolog.Logger
}

func New(layout Layout, fetcher *downloader.Fetcher, manifestURL string) *Cache {
	return &Cache{
		layout:      layout,
		fetcher:     fetcher,
		manifestURL: manifestURL,
		log:         logging.GetLogger("cache"),
	}
}

// LoadManifest returns the cached manifest, fetching and persisting it when
// absent. A cached file that no longer parses is fetched again.
func (c *Cache) LoadManifest(ctx context.Context) (*types.VersionManifest, error) {
	path := c.layout.ManifestFile()

	data, err := readCached(path)
	if err != nil {
		return nil, err
	}
	if data != nil {
		manifest, err := types.ParseManifest(data)
		if err == nil {
			return manifest, nil
		}
		c.log.Warn().Err(err).Str("path", path).Msg("cached manifest is invalid, fetching again")
	}

	return fetchAndPersist(ctx, c, path, c.manifestURL, types.ParseManifest)
}

// VersionDetail returns the detail document for id. The manifest is only
// consulted when the document is not cached yet.
func (c *Cache) VersionDetail(ctx context.Context, id string, manifestFn ManifestFunc) (*types.VersionDetail, error) {
	if !types.IsPathSegment(id) {
		return nil, errors.Newf(errors.ErrInvalidInput, "invalid version id %q", id)
	}
	return readOrFetch(ctx, c, c.layout.VersionFile(id), func() (string, error) {
		manifest, err := manifestFn(ctx)
		if err != nil {
			return "", err
		}
		if manifest == nil {
			return "", errors.New(errors.ErrInvalidInput, "version manifest is not loaded")
		}
		summary, ok := manifest.Find(id)
		if !ok {
			return "", errors.Newf(errors.ErrVersionNotFound, "version %s not found", id).
				WithDetail("version", id).
				WithDetail("known", len(manifest.Versions))
		}
		return summary.URL, nil
	}, types.ParseVersionDetail)
}

func (c *Cache) AssetIndex(ctx context.Context, ref types.AssetIndexRef) (*types.AssetIndex, error) {
	return readOrFetch(ctx, c, c.layout.AssetIndexFile(ref.ID), func() (string, error) {
		return ref.URL, nil
	}, types.ParseAssetIndex)
}

func readOrFetch[T any](ctx context.Context, c *Cache, path string, resolveURL func() (string, error), parse func([]byte) (*T, error)) (*T, error) {
	data, err := readCached(path)
	if err != nil {
		return nil, err
	}
	if data != nil {
		return parse(data)
	}

	url, err := resolveURL()
	if err != nil {
		return nil, err
	}
	return fetchAndPersist(ctx, c, path, url, parse)
}

// fetchAndPersist stores the response verbatim, but only once it parses.
func fetchAndPersist[T any](ctx context.Context, c *Cache, path, url string, parse func([]byte) (*T, error)) (*T, error) {
	c.log.Info().Str("url", url).Str("path", path).Msg("cache miss, fetching")

	data, err := c.fetcher.DownloadOne(ctx, url)
	if err != nil {
		return nil, err
	}

	v, err := parse(data)
	if err != nil {
		return nil, err
	}

	if err := WriteFile(path, data); err != nil {
		return nil, err
	}
	return v, nil
}

// readCached returns nil data and no error when path does not exist.
func readCached(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return nil, errors.Wrapf(err, errors.ErrFilesystem, "failed to read %s", path)
}
