package cache_test

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qwinci/hzlauncher/pkg/cache"
	"github.com/Qwinci/hzlauncher/pkg/downloader"
	"github.com/Qwinci/hzlauncher/pkg/errors"
	"github.com/Qwinci/hzlauncher/pkg/types"
)

type docServer struct {
	*httptest.Server
	mu   sync.Mutex
	hits map[string]int
	docs map[string]string
}

func newDocServer(t *testing.T) *docServer {
	t.Helper()
	s := &docServer{hits: map[string]int{}, docs: map[string]string{}}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		doc, ok := s.docs[r.URL.Path]
		s.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *docServer) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func setup(t *testing.T) (*docServer, *cache.Cache, cache.Layout) {
	srv := newDocServer(t)
	srv.docs["/manifest.json"] = `{"latest":{"release":"1.20.1","snapshot":"1.20.1"},
		"versions":[{"id":"1.20.1","type":"release","url":"` + srv.URL + `/1.20.1.json"}]}`
	srv.docs["/1.20.1.json"] = `{"id":"1.20.1","type":"release","mainClass":"M",
		"assetIndex":{"id":"5","url":"` + srv.URL + `/5.json"},
		"downloads":{"client":{"url":"` + srv.URL + `/client.jar"}},
		"arguments":{"jvm":[],"game":[]}}`
	srv.docs["/5.json"] = `{"objects":{"icons/icon.png":{"hash":"abcdef0123","size":3}}}`

	layout := cache.NewLayout(filepath.Join(t.TempDir(), "data"))
	c := cache.New(layout, downloader.New(2), srv.URL+"/manifest.json")
	return srv, c, layout
}

func TestLoadManifest_ReadThrough(t *testing.T) {
	srv, c, layout := setup(t)
	ctx := context.Background()

	m, err := c.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.20.1", m.Latest.Release)

	raw, err := os.ReadFile(layout.ManifestFile())
	require.NoError(t, err)
	assert.Equal(t, srv.docs["/manifest.json"], string(raw))

	_, err = c.LoadManifest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.count("/manifest.json"))
}

func TestLoadManifest_CorruptCacheRefetched(t *testing.T) {
	srv, c, layout := setup(t)
	require.NoError(t, cache.WriteFile(layout.ManifestFile(), []byte("{not json")))

	m, err := c.LoadManifest(context.Background())
	require.NoError(t, err)
	assert.Len(t, m.Versions, 1)
	assert.Equal(t, 1, srv.count("/manifest.json"))
}

func TestLoadManifest_FilesystemError(t *testing.T) {
	_, c, layout := setup(t)
	// A directory where the file should be is not "not found".
	require.NoError(t, os.MkdirAll(layout.ManifestFile(), 0755))

	_, err := c.LoadManifest(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFilesystem))
}

func TestVersionDetail(t *testing.T) {
	srv, c, layout := setup(t)
	ctx := context.Background()

	m, err := c.LoadManifest(ctx)
	require.NoError(t, err)

	d, err := c.VersionDetail(ctx, "1.20.1", cache.StaticManifest(m))
	require.NoError(t, err)
	assert.Equal(t, "M", d.MainClass)
	assert.FileExists(t, layout.VersionFile("1.20.1"))

	// Cached documents need no manifest.
	d, err = c.VersionDetail(ctx, "1.20.1", func(context.Context) (*types.VersionManifest, error) {
		t.Fatal("manifest consulted for a cached document")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "1.20.1", d.ID)
	assert.Equal(t, 1, srv.count("/1.20.1.json"))
}

func TestVersionDetail_Unknown(t *testing.T) {
	_, c, _ := setup(t)
	ctx := context.Background()
	m, err := c.LoadManifest(ctx)
	require.NoError(t, err)

	_, err = c.VersionDetail(ctx, "0.0.1", cache.StaticManifest(m))
	assert.True(t, errors.IsErrorCode(err, errors.ErrVersionNotFound))

	var lerr *errors.LauncherError
	require.True(t, stderrors.As(err, &lerr))
	assert.Equal(t, "0.0.1", lerr.Details["version"])
	assert.Equal(t, 1, lerr.Details["known"])
}

func TestVersionDetail_UnsafeID(t *testing.T) {
	srv, c, _ := setup(t)

	_, err := c.VersionDetail(context.Background(), "../escaped", func(context.Context) (*types.VersionManifest, error) {
		t.Fatal("manifest consulted for an invalid id")
		return nil, nil
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Zero(t, srv.count("/manifest.json"))
}

func TestVersionDetail_InvalidNotPersisted(t *testing.T) {
	srv, c, layout := setup(t)
	srv.docs["/1.20.1.json"] = `{"id":"1.20.1"}`
	ctx := context.Background()
	m, err := c.LoadManifest(ctx)
	require.NoError(t, err)

	_, err = c.VersionDetail(ctx, "1.20.1", cache.StaticManifest(m))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
	assert.NoFileExists(t, layout.VersionFile("1.20.1"))
}

func TestAssetIndex(t *testing.T) {
	srv, c, layout := setup(t)
	ref := types.AssetIndexRef{ID: "5", URL: srv.URL + "/5.json"}

	for i := 0; i < 2; i++ {
		index, err := c.AssetIndex(context.Background(), ref)
		require.NoError(t, err)
		assert.Equal(t, "abcdef0123", index.Objects["icons/icon.png"].Hash)
	}
	assert.Equal(t, 1, srv.count("/5.json"))
	assert.FileExists(t, layout.AssetIndexFile("5"))
}

func TestAssetIndex_NetworkError(t *testing.T) {
	srv, c, _ := setup(t)
	_, err := c.AssetIndex(context.Background(), types.AssetIndexRef{ID: "9", URL: srv.URL + "/9.json"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNetwork))
}
