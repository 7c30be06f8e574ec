// Package health provides pre-flight checks for repokit. It validates that the
// working tree, the changelog, and the release settings are usable before a
// run, returning structured reports used by the 'repokit doctor' command.
package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/repokit/repokit/internal/changelog"
	"github.com/repokit/repokit/internal/git"
	"github.com/repokit/repokit/internal/remote"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Passed = false
	}
}

// Options selects what the checks look at.
type Options struct {
	// Dir is where the repository search starts. Empty means the working directory.
	Dir           string
	ChangelogPath string
	Branch        string
	TemplatesDir  string
	// Repo is the configured repository, if any.
	Repo changelog.RepoRef
}

// RunHealthChecks runs all health checks and returns a report. Checks that
// depend on an earlier failed check are skipped.
func RunHealthChecks(ctx context.Context, opts Options) *HealthReport {
	report := &HealthReport{Passed: true}

	repo, result := CheckRepository(opts.Dir)
	report.add(result)

	doc, result := CheckChangelog(opts.ChangelogPath)
	report.add(result)

	if doc != nil {
		report.add(CheckLastTag(doc.Frontmatter.LastTag))
		if repo != nil {
			report.add(CheckStartCommit(ctx, repo, doc.Frontmatter.LastHash, opts.Branch))
		}
	}

	report.add(CheckTemplates(opts.TemplatesDir))

	var urls remote.URLSource
	if repo != nil {
		urls = repo
	}
	packageJSON := filepath.Join(filepath.Dir(opts.ChangelogPath), remote.PackageJSON)
	report.add(CheckRepoIdentity(opts.Repo, packageJSON, urls))

	return report
}

// CheckRepository checks that dir is inside a git repository.
func CheckRepository(dir string) (*git.Repository, CheckResult) {
	repo, err := git.Open(dir, nil)
	if err != nil {
		return nil, CheckResult{
			Name:    "Git repository",
			Passed:  false,
			Message: "not inside a git repository",
		}
	}
	return repo, CheckResult{Name: "Git repository", Passed: true, Message: "found"}
}

// CheckChangelog checks that path exists and has a frontmatter block and
// both markers.
func CheckChangelog(path string) (*changelog.Document, CheckResult) {
	name := "Changelog"
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, CheckResult{Name: name, Passed: false, Message: path + " not found"}
		}
		return nil, CheckResult{Name: name, Passed: false, Message: err.Error()}
	}

	doc, err := changelog.ParseDocument(string(data))
	if err != nil {
		return nil, CheckResult{Name: name, Passed: false, Message: err.Error()}
	}
	return doc, CheckResult{Name: name, Passed: true, Message: path + " has frontmatter and markers"}
}

// CheckLastTag checks that the recorded version parses. An empty tag passes
// because the default base version is used.
func CheckLastTag(tag string) CheckResult {
	name := "Last tag"
	if tag == "" {
		return CheckResult{Name: name, Passed: true, Message: "not set, " + changelog.DefaultTag + " will be used"}
	}
	if _, err := changelog.NextVersion(tag, 0); err != nil {
		return CheckResult{Name: name, Passed: false, Message: err.Error()}
	}
	return CheckResult{Name: name, Passed: true, Message: tag}
}

// CheckStartCommit checks that last-hash names a commit on branch.
func CheckStartCommit(ctx context.Context, src changelog.Source, lastHash, branch string) CheckResult {
	name := "Start commit"
	if lastHash == "" {
		return CheckResult{Name: name, Passed: false, Message: "no last-hash in frontmatter (pass --start-hash)"}
	}
	if branch == "" {
		branch = changelog.DefaultBranch
	}

	hash, err := src.ResolveHash(ctx, lastHash, branch, true)
	if err != nil {
		return CheckResult{Name: name, Passed: false, Message: err.Error()}
	}
	return CheckResult{Name: name, Passed: true, Message: fmt.Sprintf("%s on %s", hash[:git.ShortHashLength], branch)}
}

// CheckTemplates checks that a templates directory, when set, is complete and
// parses.
func CheckTemplates(dir string) CheckResult {
	name := "Templates"
	if dir == "" {
		return CheckResult{Name: name, Passed: true, Message: "built-in"}
	}
	if _, err := changelog.NewRenderer(dir); err != nil {
		return CheckResult{Name: name, Passed: false, Message: err.Error()}
	}
	return CheckResult{Name: name, Passed: true, Message: dir + " (" + strings.Join(changelog.TemplateNames(), ", ") + ")"}
}

// CheckRepoIdentity checks that links can be rendered for some repository.
func CheckRepoIdentity(configured changelog.RepoRef, packageJSON string, repo remote.URLSource) CheckResult {
	name := "Repository"
	if !configured.IsZero() {
		return CheckResult{Name: name, Passed: true, Message: configured.String() + " (configured)"}
	}

	ref, err := remote.Detect(packageJSON, repo)
	if err != nil {
		return CheckResult{Name: name, Passed: false, Message: err.Error()}
	}
	if configured.Owner != "" {
		ref.Owner = configured.Owner
	}
	if configured.Name != "" {
		ref.Name = configured.Name
	}
	return CheckResult{Name: name, Passed: true, Message: ref.String() + " (detected)"}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		mark := "✓"
		if !check.Passed {
			mark = "✗"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", mark, check.Name, check.Message)
	}
	return b.String()
}
