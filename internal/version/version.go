package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/Qwinci/hzlauncher/internal/version.Version=...
	Commit  = "unknown" // -X github.com/Qwinci/hzlauncher/internal/version.Commit=...
	Date    = "unknown" // -X github.com/Qwinci/hzlauncher/internal/version.Date=...
)
