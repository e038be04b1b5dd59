package types

import (
	"encoding/json"
	"slices"
)

// Version manifest from Mojang
type VersionManifest struct {
	Latest   LatestVersions   `json:"latest"`
	Versions []VersionSummary `json:"versions"`
}

type LatestVersions struct {
	Release  string `json:"release"`
	Snapshot string `json:"snapshot"`
}

type VersionSummary struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	URL             string `json:"url"`
	Time            string `json:"time"`
	ReleaseTime     string `json:"releaseTime"`
	SHA1            string `json:"sha1"`
	ComplianceLevel int    `json:"complianceLevel"`
}

// Find returns the summary for id, if the manifest lists it.
func (m *VersionManifest) Find(id string) (VersionSummary, bool) {
	for _, v := range m.Versions {
		if v.ID == id {
			return v, true
		}
	}
	return VersionSummary{}, false
}

// Filter returns the summaries of the given type, or all of them for "".
func (m *VersionManifest) Filter(versionType string) []VersionSummary {
	if versionType == "" {
		return slices.Clone(m.Versions)
	}

	var out []VersionSummary
	for _, v := range m.Versions {
		if v.Type == versionType {
			out = append(out, v)
		}
	}
	return out
}

func ParseManifest(data []byte) (*VersionManifest, error) {
	var manifest VersionManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, parseError("version manifest", err)
	}

	for i, v := range manifest.Versions {
		if v.ID == "" || v.URL == "" {
			return nil, schemaErrorf("version manifest", "entry %d is missing id or url", i)
		}
		if !IsPathSegment(v.ID) {
			return nil, schemaErrorf("version manifest", "entry %d has unsafe id %q", i, v.ID)
		}
	}

	return &manifest, nil
}

type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
}

type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// ShardedPath is the object's location below the objects root: "<hash[0:2]>/<hash>".
func (o AssetObject) ShardedPath() string {
	return o.Hash[:2] + "/" + o.Hash
}

func ParseAssetIndex(data []byte) (*AssetIndex, error) {
	var index AssetIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, parseError("asset index", err)
	}

	if index.Objects == nil {
		return nil, schemaErrorf("asset index", "missing objects")
	}

	for name, obj := range index.Objects {
		if !isHexHash(obj.Hash) || !isRelative(name) {
			return nil, schemaErrorf("asset index", "object %q has invalid hash %q or path", name, obj.Hash)
		}
	}

	return &index, nil
}

// isHexHash accepts lowercase hex of at least two digits, the shard prefix.
func isHexHash(h string) bool {
	if len(h) < 2 {
		return false
	}
	for _, c := range h {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
