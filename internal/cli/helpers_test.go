package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/repokit/repokit/internal/changelog"
	"github.com/repokit/repokit/internal/testutil"
)

// runCLI executes rootCmd with args and returns stdout, stderr, and the error.
// Flag values are reset first because cobra commands are package state.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := execute(context.Background(), rootCmd)
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// isolate points the user config and token lookups at empty locations.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
}

// project is a git working tree with a changelog, used as the working directory.
type project struct {
	dir    string
	repo   *testutil.GitRepo
	hashes []string
}

func newProject(t *testing.T, frontmatter string) *project {
	t.Helper()
	isolate(t)

	dir := t.TempDir()
	repo := testutil.NewDiskRepo(t, dir)
	hashes := repo.Chain(testutil.DefaultBranch, "",
		"ini? Initial commit",
		"add^ Add retry logic\n\nRefs: #12\n",
		"fix~ Fix off-by-one",
	)

	content := "---\n" + strings.ReplaceAll(frontmatter, "{{base}}", hashes[0]) + "---\n" +
		"# Changelog\n\n" + changelog.StartMarker + "\n" + changelog.EndMarker + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, changelog.DefaultPath), []byte(content), 0o644))

	t.Chdir(dir)
	return &project{dir: dir, repo: repo, hashes: hashes}
}

func (p *project) changelog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(p.dir, changelog.DefaultPath))
	require.NoError(t, err)
	return string(data)
}

func (p *project) write(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(p.dir, name), []byte(content), 0o644))
}
