package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/repokit/repokit/internal/config"
	clierrors "github.com/repokit/repokit/internal/errors"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupRelease = "release"
	GroupSetup   = "setup"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "repokit",
	Short: "Generate release notes from git history",
	Long: `repokit turns the commits since the last release into a new section of
CHANGELOG.md. Commit titles carry a three letter verb and a version flag
("add^ Support retries"); the flags decide the next version number and the
verbs decide the category each commit is listed under.

The changelog keeps its own state in a YAML frontmatter block (last-hash and
last-tag), so each run picks up where the previous one stopped.`,
	Example: `  # Add a release section for everything since last-hash
  repokit changelog

  # Show what the next release would look like
  repokit changelog preview

  # Inspect the effective configuration
  repokit config show`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupSetup, Title: "Setup Commands:"},
	)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Project config file (default .repokit.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.New(clierrors.Argument, err.Error(),
			"Run '"+cmd.CommandPath()+" --help' for the list of flags",
		).WithUsage(cmd.UseLine())
	})
}

// Execute runs the root command and prints any error on stderr.
// SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, rootCmd)
}

func execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(cmd, err)
	}
	return err
}

func reportError(cmd *cobra.Command, err error) {
	cliErr := classify(err)
	if cliErr == nil {
		return
	}
	clierrors.FprintError(cmd.ErrOrStderr(), cliErr)
}

// loadConfig loads the layered configuration, honouring --config.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.InvalidConfig(err)
	}
	return cfg, nil
}

// newLogger builds the stderr logger. --verbose wins over log_level.
func newLogger(cmd *cobra.Command, cfg *config.Configuration) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		level = parseLevel(cfg.LogLevel)
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
