package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# repokit configuration
# See 'repokit config show' for the effective values

log_level: info                       # debug | info | warn | error

# Changelog generation
changelog:
  path: CHANGELOG.md                  # Changelog file to patch
  branch: main                        # Branch both range anchors must be on
  end_hash: HEAD                      # Newest commit included in the release
  templates_dir: ""                   # Directory with release/category/commit .tmpl overrides
  workers: 4                          # Concurrent commit lookups (1-64)

# Repository used for links (detected from package.json or origin when empty)
repo:
  owner: ""
  name: ""

# Optional GitHub existence check before writing
remote:
  check: false
  api_url: https://api.github.com
  timeout: 10s                        # e.g. '10s', '1m'
  # token: ""                         # Defaults to $GITHUB_TOKEN
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"log_level": "info",
		"changelog": map[string]interface{}{
			"path":          "CHANGELOG.md",
			"branch":        "main",
			"end_hash":      "HEAD",
			"templates_dir": "",
			"workers":       4,
		},
		"repo": map[string]interface{}{
			"owner": "",
			"name":  "",
		},
		"remote": map[string]interface{}{
			"check":   false,
			"api_url": "https://api.github.com",
			"timeout": (10 * time.Second).String(),
		},
	}
}
