package launcher

import "strings"

// Sentinel that starts every placeholder.
const placeholderPrefix = "$"

// Values are substituted for the known ${...} placeholders.
type Values struct {
	PlayerName       string
	VersionName      string
	GameDirectory    string
	AssetsRoot       string
	AssetsIndexName  string
	UUID             string
	AccessToken      string
	UserType         string
	VersionType      string
	NativesDirectory string
	LauncherName     string
	LauncherVersion  string
	Classpath        string
}

type Templater struct {
	replacer *strings.Replacer
}

func NewTemplater(v Values) *Templater {
	return &Templater{replacer: strings.NewReplacer(
		"${auth_player_name}", v.PlayerName,
		"${version_name}", v.VersionName,
		"${game_directory}", v.GameDirectory,
		"${assets_root}", v.AssetsRoot,
		"${assets_index_name}", v.AssetsIndexName,
		"${auth_uuid}", v.UUID,
		"${auth_access_token}", v.AccessToken,
		"${user_type}", v.UserType,
		"${version_type}", v.VersionType,
		"${natives_directory}", v.NativesDirectory,
		"${launcher_name}", v.LauncherName,
		"${launcher_version}", v.LauncherVersion,
		"${classpath}", v.Classpath,
	)}
}

// Render substitutes every known placeholder in one pass. An argument that
// still starts with a placeholder afterwards refers to something the
// launcher does not provide and renders as "".
func (t *Templater) Render(arg string) string {
	out := t.replacer.Replace(arg)
	if strings.HasPrefix(out, placeholderPrefix) {
		return ""
	}
	return out
}
