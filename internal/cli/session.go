package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Qwinci/hzlauncher/internal/discord"
	"github.com/Qwinci/hzlauncher/pkg/account"
	"github.com/Qwinci/hzlauncher/pkg/cache"
	"github.com/Qwinci/hzlauncher/pkg/config"
	"github.com/Qwinci/hzlauncher/pkg/downloader"
	"github.com/Qwinci/hzlauncher/pkg/errors"
	"github.com/Qwinci/hzlauncher/pkg/launcher"
	"github.com/Qwinci/hzlauncher/pkg/logging"
	"github.com/Qwinci/hzlauncher/pkg/mc"
	"github.com/Qwinci/hzlauncher/pkg/metrics"
	"github.com/Qwinci/hzlauncher/pkg/rules"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	verbosity   int
	configPath  string
	dataDir     string
	accountFile string
	offline     string
	retries     int
}

// session is one command's view of the launcher: resolved configuration,
// a manager built from it and whatever side services the config enabled.
type session struct {
	cfg     *config.Config
	manager *mc.Manager
	log     zerolog.Logger

	closers []func()
}

func openSession(cmd *cobra.Command, opts *globalOptions) (*session, error) {
	log := logging.GetLogger("cli")

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.dataDir != "" {
		cfg.DataDir = opts.dataDir
	}
	if opts.retries < 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "--retries must not be negative, got %d", opts.retries)
	}

	s := &session{cfg: cfg, log: log}

	runner := launcher.NewExecRunner()
	runner.Stdout = cmd.OutOrStdout()
	runner.Stderr = cmd.ErrOrStderr()

	fetcher := downloader.New(cfg.Parallel).
		WithRequestTimeout(cfg.RequestTimeout).
		WithLogger(logging.GetLogger("downloader"))

	settings := mc.Settings{
		Layout:           cache.NewLayout(cfg.DataDir),
		Fetcher:          fetcher,
		ManifestURL:      cfg.ManifestURL,
		ResourcesURL:     cfg.ResourcesURL,
		JavaPath:         cfg.JavaPath,
		LauncherName:     cfg.Launcher.Name,
		LauncherVersion:  cfg.Launcher.Version,
		Host:             rules.CurrentHost(),
		Runner:           runner,
		Retries:          opts.retries,
		OperationTimeout: cfg.OperationTimeout,
	}

	if cfg.Discord.Enabled {
		presence := discord.NewPresence(cfg.Discord.AppID)
		if err := presence.SetIdle(); err != nil {
			log.Warn().Err(err).Msg("Discord presence unavailable")
		}
		settings.Presence = presence
		s.closers = append(s.closers, presence.Close)
	}

	if cfg.MetricsAddr != "" {
		s.serveMetrics(cfg.MetricsAddr)
	}

	s.manager = mc.NewManager(settings)

	log.Debug().
		Str("data_dir", cfg.DataDir).
		Int("parallel", fetcher.Parallel()).
		Int("retries", opts.retries).
		Msg("Session opened")

	return s, nil
}

// useAccount loads the account the game should run as: an offline account
// when --offline is given, otherwise the account file.
func (s *session) useAccount(opts *globalOptions) error {
	if opts.offline != "" {
		s.manager.SetAccount(account.NewOffline(opts.offline))
		return nil
	}

	path := s.cfg.AccountFile
	if opts.accountFile != "" {
		path = opts.accountFile
	}

	acc, err := account.Load(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrNoAccount, "no usable account at %s (use --offline <name> to play offline)", path)
	}
	s.manager.SetAccount(acc)
	return nil
}

func (s *session) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.log.Warn().Err(err).Str("addr", addr).Msg("Metrics endpoint stopped")
		}
	}()
	s.log.Info().Str("addr", addr).Msg("Serving metrics")

	s.closers = append(s.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
