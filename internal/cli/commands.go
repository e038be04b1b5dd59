package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Qwinci/hzlauncher/internal/version"
	"github.com/Qwinci/hzlauncher/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "hzlauncher",
		Short: "A command-line Minecraft launcher",
		Long: `hzlauncher resolves Minecraft versions from the official manifest, stages
their libraries, client jar and assets in a local data directory and starts
the game with the argument vector the version describes.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ./hzlauncher.toml if present)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "Directory holding the launcher cache (overrides data_dir)")
	flags.StringVar(&opts.accountFile, "account", "", "Account file to launch with (overrides account_file)")
	flags.StringVar(&opts.offline, "offline", "", "Play offline under this player name instead of loading an account")
	flags.IntVar(&opts.retries, "retries", 0, "Extra attempts for downloads that fail within a batch")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newVersionsCmd(opts))
	rootCmd.AddCommand(newInstallCmd(opts))
	rootCmd.AddCommand(newArgsCmd(opts))
	rootCmd.AddCommand(newPlayCmd(opts))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "hzlauncher version %s\n", version.Version)
			fmt.Fprintf(out, "Commit: %s\n", version.Commit)
			fmt.Fprintf(out, "Built:  %s\n", version.Date)
		},
	}
}

func newVersionsCmd(opts *globalOptions) *cobra.Command {
	var versionType string

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List versions from the manifest",
		Example: `  # All releases
  hzlauncher versions --type release`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			versions, err := s.manager.Versions(cmd.Context(), versionType)
			if err != nil {
				return fmt.Errorf("failed to list versions: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, v := range versions {
				fmt.Fprintf(out, "%s\t%s\t%s\n", v.ID, v.Type, v.ReleaseTime)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&versionType, "type", "t", "", "Only list this version type (release, snapshot, old_beta, old_alpha)")
	return cmd
}

func newInstallCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "install <version>",
		Short: "Download everything a version needs without starting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			inst, err := s.manager.Install(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to install %s: %w", args[0], err)
			}

			client := "cached"
			if inst.ClientFetched {
				client = "downloaded"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Installed %s: %d libraries, client %s, %d assets downloaded\n",
				inst.Detail.ID, inst.LibrariesFetched, client, inst.AssetsFetched)
			return nil
		},
	}
}

func newArgsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "args <version>",
		Short: "Stage a version and print the arguments it would be started with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.useAccount(opts); err != nil {
				return err
			}

			argv, err := s.manager.Arguments(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to build arguments for %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, s.cfg.JavaPath)
			for _, arg := range argv {
				fmt.Fprintln(out, arg)
			}
			return nil
		},
	}
}

func newPlayCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "play <version>",
		Short: "Stage a version and run the game until it exits",
		Example: `  # Play with the account written by the login flow
  hzlauncher play 1.20.1

  # Play offline
  hzlauncher play 1.20.1 --offline Steve`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.useAccount(opts); err != nil {
				return err
			}

			if err := s.manager.PlayVersion(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to play %s: %w", args[0], err)
			}
			return nil
		},
	}
}
