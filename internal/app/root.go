package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdfedit/wintools/internal/config"
	"github.com/pdfedit/wintools/internal/fsh"
	"github.com/pdfedit/wintools/internal/pack"
	"github.com/pdfedit/wintools/internal/repo"
	"github.com/pdfedit/wintools/internal/sln"
	"github.com/pdfedit/wintools/internal/validator"
	"github.com/pdfedit/wintools/internal/vcproj"
)

// Version is the current version of wintools, set at build time.
var Version = "dev"

const InitCmdName = "init"

// Banner with colour codes.
var Banner = "\033[32m" + `
          _       _              _
__      _(_)_ __ | |_ ___   ___ | |___
\ \ /\ / / | '_ \| __/ _ \ / _ \| / __|
 \ V  V /| | | | | || (_) | (_) | \__ \
  \_/\_/ |_|_| |_|\__\___/ \___/|_|___/
` + "\033[0m"

var LongDescription = `
wintools builds the Windows distribution of pdfedit. It packages products into
zip archives, creates Visual Studio 2008 projects for new command line tools and
adds those projects to the solution.

Configuration is read from wintools.yml (see 'wintools init').
`

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyManager, ll *slog.LevelVar, stderr io.Writer, env fsh.EnvProvider) *cobra.Command {
	var debug bool
	var noColour bool
	configPath := pathValue("")

	rootCmd := &cobra.Command{
		Use:           "wintools",
		Short:         "Windows packaging and project tools for pdfedit",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          Banner + "\n" + LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if debug {
				ll.Set(slog.LevelDebug)
			}
			// Skip initialization for help, completion and init commands
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd.Name() == InitCmdName {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			// 1. Load configuration
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("cannot determine working directory: %w", err)
			}
			loader, err := config.NewLoader(validator.NewSanthoshCompiler())
			if err != nil {
				return fmt.Errorf("configuration schema initialisation failed: %w", err)
			}
			cfg, err := loader.Discover(string(configPath), env, cwd)
			if err != nil {
				return err
			}

			// 2. Setup logging
			logger, _, err := setupLogger(stderr, ll, env, cfg.Dir)
			if err != nil {
				logger.Warn("logging to file disabled", "error", err)
			}
			logger.Debug("configuration loaded", "path", cfg.Path, "dir", cfg.Dir)

			// 3. Build dependencies
			runner := pack.NewExecRunner()
			packager := pack.NewPackager(cfg, pack.NewArchiver(cfg, runner), runner, repo.NewCLIGitter(), logger)
			generator := vcproj.NewGenerator(cfg, logger)
			updater := sln.NewUpdater(cfg, logger)

			// 4. Hydrate the lazy wrapper
			lazy.SetInner(NewCLIManager(logger, cfg, packager, generator, updater, cmd.OutOrStdout()))

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().VarP(&configPath, "config", "f",
		"path to "+config.FileName+" (overrides $"+config.EnvConfig+")")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	rootCmd.PersistentFlags().BoolVarP(&noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	rootCmd.PersistentFlags().BoolVar(&noColour, "nocolor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColor", false, "")
	rootCmd.PersistentFlags().BoolVar(&noColour, "noColour", false, "")
	_ = rootCmd.PersistentFlags().MarkHidden("nocolor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColor")
	_ = rootCmd.PersistentFlags().MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewPackageCmd(lazy))
	rootCmd.AddCommand(NewCreateVcprojCmd(lazy))
	rootCmd.AddCommand(NewAddToSlnCmd(lazy))

	return rootCmd
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
