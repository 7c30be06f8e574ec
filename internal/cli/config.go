package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/repokit/repokit/internal/config"
	"github.com/spf13/cobra"
)

var (
	cGreen  = color.New(color.FgGreen).SprintFunc()
	cYellow = color.New(color.FgYellow).SprintFunc()
	cDim    = color.New(color.Faint).SprintFunc()
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage repokit configuration",
	Long: `Manage repokit configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Command line flags
  2. Environment variables (REPOKIT_*, with __ between nested keys)
  3. Project config (.repokit.yml, or the legacy .repokit.json)
  4. User config (~/.config/repokit/config.yml)
  5. Built-in defaults`,
	Example: `  # Show the effective configuration
  repokit config show

  # Write a commented project config
  repokit config init

  # Convert .repokit.json to .repokit.yml
  repokit config migrate`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var (
	configInitUser  bool
	configInitForce bool
)

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented configuration file",
	Long: `Write a configuration file with every option and its default value.

By default the project file .repokit.yml is created in the current
directory. Use --user for the user-level file. An existing file is left
unchanged unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var (
	migrateDryRun bool
	migrateKeep   bool
)

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert .repokit.json to .repokit.yml",
	Long: `Convert the legacy JSON project config to YAML.

The JSON file is renamed to .repokit.json.bak after a successful
migration unless --keep is given. An existing .repokit.yml is never
overwritten.`,
	Args: cobra.NoArgs,
	RunE: runConfigMigrate,
}

func init() {
	configCmd.GroupID = GroupSetup
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd, configMigrateCmd)

	configInitCmd.Flags().BoolVar(&configInitUser, "user", false, "Write the user-level config instead of .repokit.yml")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing file")

	configMigrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Report the migration without writing")
	configMigrateCmd.Flags().BoolVar(&migrateKeep, "keep", false, "Keep the JSON file after migrating")
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out, err := cfg.YAML()
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), out)
	return err
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := config.ProjectConfigPath()
	if configInitUser {
		userPath, err := config.UserConfigPath()
		if err != nil {
			return fmt.Errorf("locating user config directory: %w", err)
		}
		path = userPath
	}

	out := cmd.OutOrStdout()
	if _, err := os.Stat(path); err == nil && !configInitForce {
		fmt.Fprintf(out, "%s %s already exists %s\n", cYellow("!"), path, cDim("(use --force to overwrite)"))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(out, "%s Created %s\n", cGreen("✓"), path)
	return nil
}

func runConfigMigrate(cmd *cobra.Command, _ []string) error {
	result, err := config.MigrateProjectConfig(migrateDryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !result.Success {
		fmt.Fprintln(out, result.Message)
		return nil
	}

	if !migrateKeep {
		if err := config.RemoveLegacyConfig(result.SourcePath, migrateDryRun); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "%s %s\n", cGreen("✓"), result.Message)
	if !migrateKeep && !migrateDryRun {
		fmt.Fprintf(out, "  %s\n", cDim("Backup: "+result.SourcePath+".bak"))
	}
	return nil
}
