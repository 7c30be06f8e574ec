package remote

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/repokit/repokit/internal/changelog"
)

// PackageJSON is the manifest name looked up next to the changelog.
const PackageJSON = "package.json"

// FromPackageJSON reads the repository field of an npm manifest. Both the
// string form and the {"type": "git", "url": "..."} form are accepted. A
// missing file or field gives ErrNoRepository.
func FromPackageJSON(path string) (changelog.RepoRef, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return changelog.RepoRef{}, ErrNoRepository
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return changelog.RepoRef{}, fmt.Errorf("loading %s: %w", path, err)
	}

	var url string
	switch v := k.Get("repository").(type) {
	case string:
		url = v
	case map[string]interface{}:
		url, _ = v["url"].(string)
	}
	if url == "" {
		return changelog.RepoRef{}, ErrNoRepository
	}

	ref, err := ParseGitHubURL(url)
	if err != nil {
		return changelog.RepoRef{}, fmt.Errorf("%s repository: %w", path, err)
	}
	return ref, nil
}
