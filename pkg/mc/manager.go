package mc

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Qwinci/hzlauncher/pkg/account"
	"github.com/Qwinci/hzlauncher/pkg/cache"
	"github.com/Qwinci/hzlauncher/pkg/config"
	"github.com/Qwinci/hzlauncher/pkg/downloader"
	"github.com/Qwinci/hzlauncher/pkg/errors"
	"github.com/Qwinci/hzlauncher/pkg/launcher"
	"github.com/Qwinci/hzlauncher/pkg/logging"
	"github.com/Qwinci/hzlauncher/pkg/metrics"
	"github.com/Qwinci/hzlauncher/pkg/rules"
	"github.com/Qwinci/hzlauncher/pkg/types"
)

// Presence is told when the game starts and stops.
type Presence interface {
	SetPlaying(version string) error
	SetIdle() error
}

type Settings struct {
	Layout       cache.Layout
	Fetcher      *downloader.Fetcher
	ManifestURL  string
	ResourcesURL string
	JavaPath     string
	// Substituted for ${launcher_name} and ${launcher_version}.
	LauncherName    string
	LauncherVersion string
	Host            rules.Host
	Runner          launcher.Runner
	Presence        Presence
	// Retries is how many extra rounds a batch's failed items get before
	// the operation fails.
	Retries int
	// OperationTimeout bounds staging; the game process itself is not bound.
	OperationTimeout time.Duration
	Now              func() time.Time
}

// Manager resolves, stages and launches versions. Every per-call queue and
// buffer is local to the call, so operations may run concurrently; only the
// manifest, the account and the files on disk are shared.
type Manager struct {
	settings Settings
	layout   cache.Layout
	fetcher  *downloader.Fetcher
	cache    *cache.Cache
	eval     *rules.Evaluator
	runner   launcher.Runner
	log      zerolog.Logger

	mu       sync.RWMutex
	manifest *types.VersionManifest
	account  *account.Account
}

func NewManager(settings Settings) *Manager {
	if settings.Fetcher == nil {
		settings.Fetcher = downloader.New(downloader.DefaultParallel)
	}
	if settings.Runner == nil {
		settings.Runner = launcher.NewExecRunner()
	}
	if settings.ManifestURL == "" {
		settings.ManifestURL = config.DefaultManifestURL
	}
	if settings.ResourcesURL == "" {
		settings.ResourcesURL = config.DefaultResourcesURL
	}
	if settings.JavaPath == "" {
		settings.JavaPath = "java"
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}

	return &Manager{
		settings: settings,
		layout:   settings.Layout,
		fetcher:  settings.Fetcher,
		cache:    cache.New(settings.Layout, settings.Fetcher, settings.ManifestURL),
		eval:     rules.NewEvaluator(settings.Host),
		runner:   settings.Runner,
		log:      logging.GetLogger("manager"),
	}
}

// LoadManifest reads the manifest through the cache and keeps it for the
// lifetime of the manager.
func (m *Manager) LoadManifest(ctx context.Context) (*types.VersionManifest, error) {
	manifest, err := m.cache.LoadManifest(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.manifest = manifest
	m.mu.Unlock()

	return manifest, nil
}

// Manifest returns the loaded manifest, loading it on first use.
func (m *Manager) Manifest(ctx context.Context) (*types.VersionManifest, error) {
	m.mu.RLock()
	manifest := m.manifest
	m.mu.RUnlock()

	if manifest != nil {
		return manifest, nil
	}
	return m.LoadManifest(ctx)
}

// Versions lists manifest entries of versionType, or all of them for "".
func (m *Manager) Versions(ctx context.Context, versionType string) ([]types.VersionSummary, error) {
	manifest, err := m.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	return manifest.Filter(versionType), nil
}

func (m *Manager) SetAccount(acc *account.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = acc
}

func (m *Manager) Account() *account.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account
}

// Arguments stages version id and returns the argument vector the runtime
// would be started with.
func (m *Manager) Arguments(ctx context.Context, id string) ([]string, error) {
	acc, err := m.validAccount()
	if err != nil {
		return nil, err
	}

	inst, err := m.Install(ctx, id)
	if err != nil {
		return nil, err
	}

	return m.buildArguments(inst, acc)
}

// PlayVersion stages version id, then runs the game and waits for it. The
// child's exit status is logged, never returned.
func (m *Manager) PlayVersion(ctx context.Context, id string) error {
	done := logging.LogOperationStart(m.log, "play "+id)
	defer done()

	acc, err := m.validAccount()
	if err != nil {
		return err
	}

	inst, err := m.Install(ctx, id)
	if err != nil {
		return err
	}

	args, err := m.buildArguments(inst, acc)
	if err != nil {
		return err
	}

	m.log.Info().Str("player", acc.Name).Bool("offline", acc.Offline()).Msg("starting session")
	return m.launch(ctx, inst.Detail.ID, args)
}

func (m *Manager) validAccount() (*account.Account, error) {
	acc := m.Account()
	if err := acc.Validate(m.settings.Now()); err != nil {
		return nil, err
	}
	return acc, nil
}

func (m *Manager) buildArguments(inst *Installation, acc *account.Account) ([]string, error) {
	values, err := m.values(inst, acc)
	if err != nil {
		return nil, err
	}

	jvm, game := inst.Detail.LaunchArguments()
	return launcher.BuildArguments(m.eval, launcher.NewTemplater(values), jvm, inst.Detail.MainClass, game)
}

func (m *Manager) values(inst *Installation, acc *account.Account) (launcher.Values, error) {
	abs := func(path string) (string, error) {
		p, err := filepath.Abs(path)
		return p, errors.Wrapf(err, errors.ErrFilesystem, "failed to resolve %s", path)
	}

	instance, err := abs(m.layout.InstanceDir())
	if err != nil {
		return launcher.Values{}, err
	}
	assets, err := abs(m.layout.AssetsDir())
	if err != nil {
		return launcher.Values{}, err
	}
	natives, err := abs(m.layout.NativesDir())
	if err != nil {
		return launcher.Values{}, err
	}

	return launcher.Values{
		PlayerName:       acc.Name,
		VersionName:      inst.Detail.ID,
		GameDirectory:    instance,
		AssetsRoot:       assets,
		AssetsIndexName:  inst.Detail.AssetIndexName(),
		UUID:             acc.ID,
		AccessToken:      acc.McCreds.AccessToken,
		UserType:         account.UserType,
		VersionType:      inst.Detail.Type,
		NativesDirectory: natives,
		LauncherName:     m.settings.LauncherName,
		LauncherVersion:  m.settings.LauncherVersion,
		Classpath:        inst.Classpath,
	}, nil
}

func (m *Manager) launch(ctx context.Context, version string, args []string) error {
	m.log.Info().Str("version", version).Str("java", m.settings.JavaPath).Msg("launching game")
	m.log.Debug().Strs("args", args).Msg("runtime arguments")

	if p := m.settings.Presence; p != nil {
		if err := p.SetPlaying(version); err != nil {
			m.log.Warn().Err(err).Msg("failed to set playing presence")
		}
		defer func() {
			if err := p.SetIdle(); err != nil {
				m.log.Warn().Err(err).Msg("failed to set idle presence")
			}
		}()
	}

	code, err := m.runner.Run(ctx, m.settings.JavaPath, args)
	if err != nil {
		metrics.RecordLaunch("spawn_error")
		return err
	}

	outcome := "exited"
	if code != 0 {
		outcome = "failed"
	}
	metrics.RecordLaunch(outcome)
	m.log.Info().Str("version", version).Int("exit_code", code).Msg("game exited")

	return nil
}
