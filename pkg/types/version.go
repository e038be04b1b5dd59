package types

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

type VersionDetail struct {
	ID                 string        `json:"id"`
	Type               string        `json:"type"`
	MainClass          string        `json:"mainClass"`
	Assets             string        `json:"assets"`
	AssetIndex         AssetIndexRef `json:"assetIndex"`
	Downloads          Downloads     `json:"downloads"`
	Libraries          []Library     `json:"libraries"`
	Arguments          *Arguments    `json:"arguments,omitempty"`
	MinecraftArguments string        `json:"minecraftArguments,omitempty"`
}

type AssetIndexRef struct {
	ID        string `json:"id"`
	SHA1      string `json:"sha1"`
	Size      int64  `json:"size"`
	TotalSize int64  `json:"totalSize"`
	URL       string `json:"url"`
}

type Downloads struct {
	Client Artifact `json:"client"`
	Server Artifact `json:"server"`
}

type Library struct {
	Name      string           `json:"name"`
	Downloads LibraryDownloads `json:"downloads"`
	Rules     []Rule           `json:"rules,omitempty"`
}

type LibraryDownloads struct {
	Artifact *Artifact `json:"artifact,omitempty"`
}

type Artifact struct {
	Path string `json:"path"`
	URL  string `json:"url"`
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
}

type Arguments struct {
	JVM  []Argument `json:"jvm"`
	Game []Argument `json:"game"`
}

// Argument is either a literal (string or array of strings) or a
// conditional {rules, value}. Literals decode with no rules.
type Argument struct {
	Rules  []Rule
	Values []string
}

func (a *Argument) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) > 0 && data[0] == '{' {
		var cond struct {
			Rules []Rule          `json:"rules"`
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(data, &cond); err != nil {
			return err
		}
		if cond.Value == nil {
			return fmt.Errorf("conditional argument has no value")
		}
		values, err := decodeValues(cond.Value)
		if err != nil {
			return err
		}
		a.Rules, a.Values = cond.Rules, values
		return nil
	}

	values, err := decodeValues(data)
	if err != nil {
		return err
	}
	a.Rules, a.Values = nil, values
	return nil
}

func (a Argument) MarshalJSON() ([]byte, error) {
	var value interface{} = a.Values
	if len(a.Values) == 1 {
		value = a.Values[0]
	}
	if len(a.Rules) == 0 {
		return json.Marshal(value)
	}
	return json.Marshal(struct {
		Rules []Rule      `json:"rules"`
		Value interface{} `json:"value"`
	}{a.Rules, value})
}

func decodeValues(data json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		return []string{single}, nil
	}

	var multiple []string
	if err := json.Unmarshal(data, &multiple); err != nil {
		return nil, fmt.Errorf("argument value must be a string or an array of strings")
	}
	return multiple, nil
}

// Default JVM arguments for documents that only carry the legacy
// minecraftArguments string.
var legacyJVMArguments = []Argument{
	{Values: []string{"-Djava.library.path=${natives_directory}"}},
	{Values: []string{"-cp", "${classpath}"}},
}

// LaunchArguments returns the JVM and game argument lists, converting the
// legacy minecraftArguments form when no arguments object is present.
func (d *VersionDetail) LaunchArguments() (jvm, game []Argument) {
	if d.Arguments != nil {
		return d.Arguments.JVM, d.Arguments.Game
	}

	for _, field := range strings.Fields(d.MinecraftArguments) {
		game = append(game, Argument{Values: []string{field}})
	}
	return legacyJVMArguments, game
}

// AssetIndexName is the value substituted for ${assets_index_name}.
func (d *VersionDetail) AssetIndexName() string {
	if d.Assets != "" {
		return d.Assets
	}
	return d.AssetIndex.ID
}

func ParseVersionDetail(data []byte) (*VersionDetail, error) {
	var detail VersionDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		return nil, parseError("version detail", err)
	}

	if err := detail.validate(); err != nil {
		return nil, err
	}

	return &detail, nil
}

func (d *VersionDetail) validate() error {
	const doc = "version detail"

	switch {
	case d.ID == "":
		return schemaErrorf(doc, "missing id")
	case d.MainClass == "":
		return schemaErrorf(doc, "%s: missing mainClass", d.ID)
	case d.Downloads.Client.URL == "":
		return schemaErrorf(doc, "%s: missing downloads.client.url", d.ID)
	case d.AssetIndex.ID == "" || d.AssetIndex.URL == "":
		return schemaErrorf(doc, "%s: missing assetIndex id or url", d.ID)
	case d.Arguments == nil && d.MinecraftArguments == "":
		return schemaErrorf(doc, "%s: missing arguments", d.ID)
	case !IsPathSegment(d.ID):
		return schemaErrorf(doc, "unsafe id %q", d.ID)
	case !IsPathSegment(d.AssetIndex.ID):
		return schemaErrorf(doc, "%s: unsafe assetIndex id %q", d.ID, d.AssetIndex.ID)
	}

	for i, lib := range d.Libraries {
		artifact := lib.Downloads.Artifact
		if artifact == nil {
			continue
		}
		if artifact.Path == "" || artifact.URL == "" {
			return schemaErrorf(doc, "%s: library %d (%s) is missing artifact path or url", d.ID, i, lib.Name)
		}
		if !isRelative(artifact.Path) {
			return schemaErrorf(doc, "%s: library %s has unsafe path %q", d.ID, lib.Name, artifact.Path)
		}
	}

	return nil
}

// isRelative rejects paths that would escape the directory they are joined to.
func isRelative(p string) bool {
	if p == "" || path.IsAbs(p) || strings.Contains(p, "\\") {
		return false
	}
	clean := path.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

// IsPathSegment reports whether s names a single entry of a directory.
func IsPathSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
