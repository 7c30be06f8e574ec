// Package remote works out which GitHub repository a changelog links to.
// The identity comes from package.json or the git origin remote, and can
// optionally be confirmed against the GitHub API.
package remote

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/repokit/repokit/internal/changelog"
)

// ErrNoRepository is returned when no source names a repository.
var ErrNoRepository = errors.New("repository owner and name could not be determined")

// ErrNotGitHub is returned for URLs that do not point at github.com.
var ErrNotGitHub = errors.New("not a GitHub repository URL")

var (
	// https://github.com/o/n.git, git+https://..., ssh://git@github.com/o/n, git://...
	urlPattern = regexp.MustCompile(`^(?:git\+)?(?:https?|ssh|git)://(?:[^@/]+@)?github\.com(?::\d+)?/([^/]+)/([^/#?]+?)(?:\.git)?/?(?:[#?].*)?$`)
	// git@github.com:o/n.git
	scpPattern = regexp.MustCompile(`^(?:[^@/]+@)?github\.com:([^/]+)/([^/#?]+?)(?:\.git)?/?$`)
	// github:o/n and the bare npm shorthand o/n
	shorthandPattern = regexp.MustCompile(`^(?:github:)?([A-Za-z0-9][A-Za-z0-9-]*)/([A-Za-z0-9._-]+?)(?:\.git)?(?:#.*)?$`)
)

// ParseGitHubURL extracts owner and name from the URL forms npm and git
// accept for a GitHub repository.
func ParseGitHubURL(raw string) (changelog.RepoRef, error) {
	s := strings.TrimSpace(raw)
	for _, p := range []*regexp.Regexp{urlPattern, scpPattern, shorthandPattern} {
		if m := p.FindStringSubmatch(s); m != nil {
			return changelog.RepoRef{Owner: m[1], Name: m[2]}, nil
		}
	}
	return changelog.RepoRef{}, fmt.Errorf("%q: %w", raw, ErrNotGitHub)
}

// URLSource exposes the configured URL of a named git remote.
type URLSource interface {
	RemoteURL(name string) (string, error)
}

// Detect tries package.json first, then the origin remote of repo. An empty
// packageJSON path or a nil repo is skipped.
func Detect(packageJSON string, repo URLSource) (changelog.RepoRef, error) {
	if packageJSON != "" {
		ref, err := FromPackageJSON(packageJSON)
		switch {
		case err == nil:
			return ref, nil
		case !errors.Is(err, ErrNoRepository):
			return changelog.RepoRef{}, err
		}
	}

	if repo != nil {
		url, err := repo.RemoteURL("origin")
		if err == nil {
			ref, err := ParseGitHubURL(url)
			if err != nil {
				return changelog.RepoRef{}, fmt.Errorf("origin remote: %w", err)
			}
			return ref, nil
		}
	}

	return changelog.RepoRef{}, ErrNoRepository
}
