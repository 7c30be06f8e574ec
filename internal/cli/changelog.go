package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/repokit/repokit/internal/changelog"
	"github.com/repokit/repokit/internal/config"
	clierrors "github.com/repokit/repokit/internal/errors"
	"github.com/repokit/repokit/internal/git"
	"github.com/repokit/repokit/internal/progress"
	"github.com/repokit/repokit/internal/remote"
	"github.com/spf13/cobra"
)

// changelogFlags holds the flags shared by changelog and changelog preview.
type changelogFlags struct {
	path         string
	lastTag      string
	startHash    string
	endHash      string
	branch       string
	repoOwner    string
	repoName     string
	templatesDir string
	workers      int
	checkRemote  bool
}

var (
	changelogOpts   changelogFlags
	changelogDryRun bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Add the next release section to CHANGELOG.md",
	Long: `Add the next release section to the changelog.

The commits between the frontmatter's last-hash (or --start-hash) and
--end-hash are grouped by verb, and their version flags decide the next
tag. The section is inserted right after the <!-- LOG_START --> marker and
the frontmatter is updated so the following run starts where this one ended.

Both ends of the range must be commits on --branch. Merge commits are
skipped. The file is written once, and only if every step succeeded.`,
	Example: `  # Release everything since last-hash
  repokit changelog

  # First release of a project, starting from a known commit
  repokit changelog --start-hash 4f2a9c1 --last-tag v0.1.0

  # Print the patched file instead of writing it
  repokit changelog --dry-run`,
	Args: cobra.NoArgs,
	RunE: runChangelog,
}

func init() {
	changelogCmd.GroupID = GroupRelease
	rootCmd.AddCommand(changelogCmd)

	flags := changelogCmd.PersistentFlags()
	flags.StringVarP(&changelogOpts.path, "path", "p", changelog.DefaultPath, "Changelog file to update")
	flags.StringVarP(&changelogOpts.lastTag, "last-tag", "t", "", "Version of the previous release (default: frontmatter last-tag, then "+changelog.DefaultTag+")")
	flags.StringVarP(&changelogOpts.startHash, "start-hash", "s", "", "Commit the previous release ended at (default: frontmatter last-hash)")
	flags.StringVarP(&changelogOpts.endHash, "end-hash", "e", changelog.DefaultEndHash, "Newest commit to include")
	flags.StringVarP(&changelogOpts.branch, "branch", "b", changelog.DefaultBranch, "Branch both ends of the range must be on")
	flags.StringVarP(&changelogOpts.repoOwner, "repo-owner", "o", "", "GitHub repository owner used for links")
	flags.StringVarP(&changelogOpts.repoName, "repo-name", "n", "", "GitHub repository name used for links")
	flags.StringVar(&changelogOpts.templatesDir, "templates", "", "Directory with release.tmpl, category.tmpl and commit.tmpl overrides")
	flags.IntVar(&changelogOpts.workers, "workers", 4, "Concurrent commit lookups")
	flags.BoolVar(&changelogOpts.checkRemote, "check-remote", false, "Confirm the repository exists on GitHub first")

	changelogCmd.Flags().BoolVar(&changelogDryRun, "dry-run", false, "Print the patched changelog instead of writing it")
}

func runChangelog(cmd *cobra.Command, _ []string) error {
	result, err := generate(cmd, changelogDryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if changelogDryRun {
		_, err := io.WriteString(out, result.Document)
		return err
	}

	symbols := progress.SelectSymbols(capabilitiesOf(out))
	fmt.Fprintf(out, "%s %s\n", symbols.Checkmark, summarize(result))
	return nil
}

// summarize describes what a run did in one line.
func summarize(r *changelog.Result) string {
	switch {
	case r.Written:
		return fmt.Sprintf("Updated %s: %s -> %s (%d %s)", r.Path, r.View.PreviousTag, r.View.Tag,
			r.View.CommitCount(), pluralize(r.View.CommitCount(), "commit", "commits"))
	case r.Range.IsEmpty():
		return fmt.Sprintf("No new commits since %s, %s left unchanged", shortHash(r.Range.Start), r.Path)
	default:
		return fmt.Sprintf("%s is already up to date", r.Path)
	}
}

// generate runs the pipeline with options merged from flags and config.
func generate(cmd *cobra.Command, dryRun bool) (*changelog.Result, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd, cfg)

	opts := generateOptions(cmd, cfg)
	opts.DryRun = dryRun

	repo, err := git.Open("", logger)
	if err != nil {
		cwd, _ := os.Getwd()
		cliErr := clierrors.NotARepository(cwd)
		cliErr.Cause = err
		return nil, cliErr
	}

	opts.Repo, err = repoRef(cmd, cfg, opts.Path, repo)
	if err != nil {
		return nil, err
	}

	if boolOption(cmd, "check-remote", changelogOpts.checkRemote, cfg.Remote.Check) {
		checker := remote.NewChecker(
			remote.WithAPIURL(cfg.Remote.APIURL),
			remote.WithToken(cfg.Remote.Token),
			remote.WithTimeout(cfg.Remote.Timeout),
			remote.WithLogger(logger),
		)
		if err := checker.Check(cmd.Context(), opts.Repo); err != nil {
			return nil, err
		}
	}

	stderr := cmd.ErrOrStderr()
	reporter := progress.NewReporter(stderr, capabilitiesOf(stderr))
	reporter.Start("Reading commits")
	defer reporter.Stop()
	opts.Progress = reporter.Update

	return changelog.NewGenerator(repo, logger).Generate(cmd.Context(), opts)
}

// generateOptions merges flags over configuration. A flag wins only when it
// was set on the command line.
func generateOptions(cmd *cobra.Command, cfg *config.Configuration) changelog.GenerateOptions {
	c := cfg.Changelog
	return changelog.GenerateOptions{
		Path:         stringOption(cmd, "path", changelogOpts.path, c.Path),
		LastTag:      changelogOpts.lastTag,
		StartHash:    changelogOpts.startHash,
		EndHash:      stringOption(cmd, "end-hash", changelogOpts.endHash, c.EndHash),
		Branch:       stringOption(cmd, "branch", changelogOpts.branch, c.Branch),
		TemplatesDir: stringOption(cmd, "templates", changelogOpts.templatesDir, c.TemplatesDir),
		Workers:      intOption(cmd, "workers", changelogOpts.workers, c.Workers),
	}
}

// repoRef resolves the repository from flags, then config, then package.json
// next to the changelog, then the origin remote. Each of owner and name is
// filled independently.
func repoRef(cmd *cobra.Command, cfg *config.Configuration, path string, repo remote.URLSource) (changelog.RepoRef, error) {
	ref := changelog.RepoRef{
		Owner: stringOption(cmd, "repo-owner", changelogOpts.repoOwner, cfg.Repo.Owner),
		Name:  stringOption(cmd, "repo-name", changelogOpts.repoName, cfg.Repo.Name),
	}
	if !ref.IsZero() {
		return ref, nil
	}

	detected, err := remote.Detect(filepath.Join(filepath.Dir(path), remote.PackageJSON), repo)
	if err != nil {
		if errors.Is(err, remote.ErrNotGitHub) {
			return ref, clierrors.WrapWithMessage(err, clierrors.Configuration,
				"the repository could not be determined", clierrors.RepositoryUnknown().Remediation...)
		}
		return ref, err
	}
	if ref.Owner == "" {
		ref.Owner = detected.Owner
	}
	if ref.Name == "" {
		ref.Name = detected.Name
	}
	return ref, nil
}

func stringOption(cmd *cobra.Command, name, flagValue, configValue string) string {
	if cmd.Flags().Changed(name) || configValue == "" {
		return flagValue
	}
	return configValue
}

func intOption(cmd *cobra.Command, name string, flagValue, configValue int) int {
	if cmd.Flags().Changed(name) || configValue == 0 {
		return flagValue
	}
	return configValue
}

func boolOption(cmd *cobra.Command, name string, flagValue, configValue bool) bool {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return configValue
}

// capabilitiesOf detects the terminal behind w. Anything that is not an
// *os.File is treated as a pipe.
func capabilitiesOf(w io.Writer) progress.TerminalCapabilities {
	f, ok := w.(*os.File)
	if !ok {
		return progress.TerminalCapabilities{}
	}
	return progress.DetectTerminalCapabilities(f)
}

func shortHash(hash string) string {
	if len(hash) > git.ShortHashLength {
		return hash[:git.ShortHashLength]
	}
	return hash
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
