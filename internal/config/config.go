// Package config provides hierarchical configuration management for repokit using koanf.
// Configuration is loaded with priority: environment variables > project config (.repokit.yml)
// > user config (~/.config/repokit/config.yml) > defaults. A legacy .repokit.json project file
// is still read, with a migration warning.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override. Nested keys are
// separated by a double underscore: REPOKIT_CHANGELOG__WORKERS.
const EnvPrefix = "REPOKIT_"

// TokenEnv is read when remote.token is not configured.
const TokenEnv = "GITHUB_TOKEN"

// Configuration represents the repokit CLI tool configuration
type Configuration struct {
	// LogLevel is one of debug, info, warn, error. --verbose forces debug.
	LogLevel  string          `koanf:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	Changelog ChangelogConfig `koanf:"changelog" yaml:"changelog"`
	Repo      RepoConfig      `koanf:"repo" yaml:"repo"`
	Remote    RemoteConfig    `koanf:"remote" yaml:"remote"`
}

// ChangelogConfig holds the defaults for the changelog command flags.
type ChangelogConfig struct {
	Path    string `koanf:"path" yaml:"path" validate:"required"`
	Branch  string `koanf:"branch" yaml:"branch" validate:"required"`
	EndHash string `koanf:"end_hash" yaml:"end_hash" validate:"required"`
	// TemplatesDir replaces the embedded templates when set.
	TemplatesDir string `koanf:"templates_dir" yaml:"templates_dir"`
	Workers      int    `koanf:"workers" yaml:"workers" validate:"min=1,max=64"`
}

// RepoConfig names the GitHub repository used in generated links. When empty
// it is detected from package.json or the origin remote.
type RepoConfig struct {
	Owner string `koanf:"owner" yaml:"owner"`
	Name  string `koanf:"name" yaml:"name"`
}

// RemoteConfig controls the optional GitHub existence check.
type RemoteConfig struct {
	Check   bool          `koanf:"check" yaml:"check"`
	APIURL  string        `koanf:"api_url" yaml:"api_url" validate:"omitempty,url"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
	Token   string        `koanf:"token" yaml:"token,omitempty"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .repokit.yml)
	ProjectConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
	// SkipUserConfig ignores the user-level file
	SkipUserConfig bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k); err != nil {
			return nil, err
		}
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/repokit/config.yml when present.
func loadUserConfig(k *koanf.Koanf) error {
	userPath, err := UserConfigPath()
	if err != nil || !fileExists(userPath) {
		return nil
	}
	if err := loadYAMLConfig(k, userPath, "user"); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project file (YAML preferred, legacy JSON supported).
// A custom path always wins and is parsed by its extension.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	if customPath != "" {
		if !fileExists(customPath) {
			return &ValidationError{FilePath: customPath, Message: "config file not found"}
		}
		if strings.EqualFold(filepath.Ext(customPath), ".json") {
			return loadJSONConfig(k, customPath, "project")
		}
		return loadYAMLConfig(k, customPath, "project")
	}

	yamlPath := ProjectConfigPath()
	legacyPath := LegacyProjectConfigPath()
	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		if legacyExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
			fmt.Fprintf(warningWriter, "  Run 'repokit config migrate' to remove the legacy file.\n\n")
		}
	case legacyExists:
		if err := loadJSONConfig(k, legacyPath, "project"); err != nil {
			return fmt.Errorf("loading legacy project JSON config: %w", err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Run 'repokit config migrate' to migrate to YAML format.\n\n")
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return err
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

func loadJSONConfig(k *koanf.Koanf, path, configType string) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return &ValidationError{FilePath: path, Message: fmt.Sprintf("invalid %s config: %v", configType, err)}
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, err
	}

	cfg.Changelog.TemplatesDir = expandHomePath(cfg.Changelog.TemplatesDir)

	if cfg.Remote.Token == "" {
		cfg.Remote.Token = os.Getenv(TokenEnv)
	}

	return &cfg, nil
}

// YAML renders the effective configuration. The token is redacted.
func (c *Configuration) YAML() (string, error) {
	out := *c
	if out.Remote.Token != "" {
		out.Remote.Token = "********"
	}
	var b strings.Builder
	enc := yamlv3.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return b.String(), nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: REPOKIT_CHANGELOG__END_HASH -> changelog.end_hash
func envTransform(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
