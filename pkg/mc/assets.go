package mc

import (
	"context"

	"github.com/Qwinci/hzlauncher/pkg/cache"
	"github.com/Qwinci/hzlauncher/pkg/downloader"
	"github.com/Qwinci/hzlauncher/pkg/metrics"
	"github.com/Qwinci/hzlauncher/pkg/types"
)

// assetTarget correlates an asset download with its canonical object file
// and its legacy mirror.
type assetTarget struct {
	object string
	legacy string
}

// installAssets fetches every asset that is missing either its object file
// or its legacy mirror, writes the object and copies it to the mirror.
func (m *Manager) installAssets(ctx context.Context, index *types.AssetIndex) (int, error) {
	batch := downloader.NewBatch[assetTarget](m.fetcher)

	for virtualPath, obj := range index.Objects {
		sharded := obj.ShardedPath()
		target := assetTarget{
			object: m.layout.ObjectFile(sharded),
			legacy: m.layout.LegacyFile(virtualPath),
		}

		present, err := bothExist(target.object, target.legacy)
		if err != nil {
			return 0, err
		}
		if present {
			continue
		}

		batch.Add(target, m.settings.ResourcesURL+"/"+sharded)
	}

	if batch.Len() == 0 {
		return 0, nil
	}

	m.log.Info().Int("count", batch.Len()).Int("total", len(index.Objects)).Msg("downloading assets")
	results, fetchErr := runBatch(ctx, batch, m.settings.Retries)

	for _, r := range results {
		if err := cache.WriteFile(r.ID.object, r.Data); err != nil {
			return 0, err
		}
		// The object stays in place if the mirror cannot be written.
		if err := cache.CopyFile(r.ID.object, r.ID.legacy); err != nil {
			return 0, err
		}
	}
	metrics.RecordStaged("asset", len(results))

	return len(results), fetchErr
}

func bothExist(paths ...string) (bool, error) {
	for _, p := range paths {
		ok, err := cache.Exists(p)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
