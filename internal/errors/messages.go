package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the repokit CLI.
// These templates ensure consistent, actionable error messages.

// MissingChangelog creates an error for a changelog file that does not exist.
func MissingChangelog(path string) *CLIError {
	return New(Prerequisite,
		fmt.Sprintf("changelog not found: %s", path),
		"Create the file with a frontmatter block and the LOG_START/LOG_END markers",
		"Or point at another file with --path",
	)
}

// MissingLastHash creates an error for a changelog with no starting commit.
func MissingLastHash(path string) *CLIError {
	return New(Argument,
		fmt.Sprintf("%s has no last-hash property", path),
		"Pass the commit the previous release ended at with --start-hash",
		"Or add 'last-hash: <commit>' to the frontmatter",
	).WithUsage("repokit changelog --start-hash <commit>")
}

// InvalidFrontmatter creates an error for a malformed frontmatter block.
func InvalidFrontmatter(path, reason string) *CLIError {
	return New(Runtime,
		fmt.Sprintf("invalid frontmatter in %s: %s", path, reason),
		"The file must start with a '---' line and a YAML mapping closed by another '---' line",
	)
}

// InvalidMarkers creates an error for missing, duplicated, or misordered markers.
func InvalidMarkers(path, marker, reason string) *CLIError {
	return New(Runtime,
		fmt.Sprintf("%s: %s %s", path, marker, reason),
		"Add exactly one '<!-- LOG_START -->' line followed by one '<!-- LOG_END -->' line",
		"Generated release notes are inserted between the two markers",
	)
}

// InvalidVersion creates an error for a tag that is not vX.Y.Z.
func InvalidVersion(tag string) *CLIError {
	return New(Argument,
		fmt.Sprintf("invalid version tag: %q", tag),
		"Tags must have the form vMAJOR.MINOR.PATCH (the v is optional)",
		"Fix last-tag in the frontmatter or pass --last-tag",
	).WithUsage("repokit changelog --last-tag v1.2.3")
}

// CommitNotFound creates an error for an unknown commit reference.
func CommitNotFound(ref string) *CLIError {
	return New(Runtime,
		fmt.Sprintf("commit not found: %q", ref),
		"Check the hash with 'git log --oneline'",
		"Fetch the missing history if this is a shallow clone",
	)
}

// AmbiguousHash creates an error for a short hash matching several commits.
func AmbiguousHash(ref string, candidates []string) *CLIError {
	return New(Argument,
		fmt.Sprintf("short hash %q matches %d commits: %s", ref, len(candidates), strings.Join(candidates, ", ")),
		"Use a longer prefix or the full 40 character hash",
	)
}

// NotOnBranch creates an error for a range anchor outside the release branch.
func NotOnBranch(ref, branch string) *CLIError {
	return New(Argument,
		fmt.Sprintf("commit %q is not on branch %q", ref, branch),
		fmt.Sprintf("Pick commits reachable from %s", branch),
		"Or select another branch with --branch",
	)
}

// UnresolvedRevert creates an error for a revert commit that names no hash.
func UnresolvedRevert(hash, summary string) *CLIError {
	return New(Runtime,
		fmt.Sprintf("revert commit %s does not name the reverted commit: %q", hash, summary),
		"Revert summaries must read 'Revert <short hash>'",
	)
}

// TemplateMissing creates an error for an incomplete templates directory.
func TemplateMissing(name, dir string, cause error) *CLIError {
	return New(Prerequisite,
		fmt.Sprintf("template %q in %s: %v", name, dir, cause),
		"A templates directory must contain release.tmpl, category.tmpl and commit.tmpl",
		"Remove --templates to use the built-in templates",
	)
}

// RepositoryUnknown creates an error when owner and name cannot be determined.
func RepositoryUnknown() *CLIError {
	return New(Configuration,
		"GitHub repository owner and name could not be determined",
		"Pass --repo-owner and --repo-name",
		"Or set repo.owner and repo.name in .repokit.yml",
		"Or add a repository.url to package.json",
	)
}

// RemoteRepositoryMissing creates an error when the GitHub check fails.
func RemoteRepositoryMissing(url string, status int) *CLIError {
	return New(Configuration,
		fmt.Sprintf("GitHub repository %s could not be confirmed (status %d)", url, status),
		"Check --repo-owner and --repo-name",
		"Set GITHUB_TOKEN for private repositories",
		"Or disable the check with remote.check: false",
	)
}

// NotARepository creates an error when no git repository is found.
func NotARepository(path string) *CLIError {
	return New(Prerequisite,
		fmt.Sprintf("not a git repository: %s", path),
		"Run repokit inside a git working tree",
	)
}

// InvalidConfig creates an error for a configuration file that failed validation.
func InvalidConfig(err error) *CLIError {
	return WrapWithMessage(err, Configuration, "invalid configuration",
		"Run 'repokit config show' to inspect the effective configuration",
	)
}
