package cli

import (
	"fmt"

	"github.com/repokit/repokit/internal/changelog"
	"github.com/repokit/repokit/internal/health"
	"github.com/spf13/cobra"
)

var (
	doctorPath   string
	doctorBranch string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the next changelog run can succeed",
	Long: `Run pre-flight checks without reading any commit range:

  - the working directory is inside a git repository
  - the changelog has a frontmatter block and both markers
  - last-tag is a valid version and last-hash is a commit on the branch
  - a templates directory, if configured, is complete
  - the GitHub repository can be determined

Exits with status 4 if any check fails.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupSetup
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().StringVarP(&doctorPath, "path", "p", changelog.DefaultPath, "Changelog file to check")
	doctorCmd.Flags().StringVarP(&doctorBranch, "branch", "b", changelog.DefaultBranch, "Branch last-hash must be on")
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	report := health.RunHealthChecks(cmd.Context(), health.Options{
		ChangelogPath: stringOption(cmd, "path", doctorPath, cfg.Changelog.Path),
		Branch:        stringOption(cmd, "branch", doctorBranch, cfg.Changelog.Branch),
		TemplatesDir:  cfg.Changelog.TemplatesDir,
		Repo:          changelog.RepoRef{Owner: cfg.Repo.Owner, Name: cfg.Repo.Name},
	})

	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
	if !report.Passed {
		return NewExitError(ExitMissingDependencies)
	}
	return nil
}
