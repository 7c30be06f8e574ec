// Package cli tests root command, global flags, and error reporting for repokit.
// Related: internal/cli/root.go, internal/cli/errors.go, internal/cli/exit_codes.go
// Tags: cli, root, commands, global-flags, exit-codes

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repokit/repokit/internal/changelog"
	"github.com/repokit/repokit/internal/config"
	clierrors "github.com/repokit/repokit/internal/errors"
	"github.com/repokit/repokit/internal/remote"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "repokit", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceErrors)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"config", "verbose"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "Flag %s should exist", name)
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		path  []string
		group string
	}{
		"changelog":      {path: []string{"changelog"}, group: GroupRelease},
		"preview":        {path: []string{"changelog", "preview"}},
		"config":         {path: []string{"config"}, group: GroupSetup},
		"config show":    {path: []string{"config", "show"}},
		"config init":    {path: []string{"config", "init"}},
		"config migrate": {path: []string{"config", "migrate"}},
		"version":        {path: []string{"version"}, group: GroupSetup},
		"doctor":         {path: []string{"doctor"}, group: GroupSetup},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cmd, rest, err := rootCmd.Find(tt.path)
			require.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, tt.path[len(tt.path)-1], cmd.Name())
			if tt.group != "" {
				assert.Equal(t, tt.group, cmd.GroupID)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err          error
		wantCategory clierrors.ErrorCategory
		wantMessage  string
	}{
		"missing last hash": {
			err:          &changelog.FrontmatterError{Path: "CHANGELOG.md", Reason: changelog.ReasonMissingLastHash},
			wantCategory: clierrors.Argument,
			wantMessage:  "CHANGELOG.md has no last-hash property",
		},
		"frontmatter": {
			err:          &changelog.FrontmatterError{Path: "CHANGELOG.md", Reason: "no closing '---' line"},
			wantCategory: clierrors.Runtime,
			wantMessage:  "invalid frontmatter in CHANGELOG.md",
		},
		"markers": {
			err:          &changelog.MarkerError{Path: "CHANGELOG.md", Marker: changelog.EndMarker, Reason: "not found"},
			wantCategory: clierrors.Runtime,
			wantMessage:  "not found",
		},
		"version": {
			err:          fmt.Errorf("next tag: %w", &changelog.VersionFormatError{Tag: "latest"}),
			wantCategory: clierrors.Argument,
			wantMessage:  `invalid version tag: "latest"`,
		},
		"ambiguous": {
			err:          &changelog.AmbiguousHashError{Ref: "abcd", Candidates: []string{"abcd1", "abcd2"}},
			wantCategory: clierrors.Argument,
			wantMessage:  "matches 2 commits",
		},
		"branch": {
			err:          &changelog.BranchMismatchError{Ref: "abcd", Branch: "main"},
			wantCategory: clierrors.Argument,
			wantMessage:  `is not on branch "main"`,
		},
		"lookup": {
			err:          &changelog.CommitLookupError{Ref: "abcd"},
			wantCategory: clierrors.Runtime,
			wantMessage:  `commit not found: "abcd"`,
		},
		"revert": {
			err:          &changelog.RevertResolutionError{Hash: "abcd123", Summary: "Revert it"},
			wantCategory: clierrors.Runtime,
			wantMessage:  "does not name the reverted commit",
		},
		"template": {
			err:          &changelog.TemplateError{Name: "commit", Dir: "tmpl", Err: errors.New("missing")},
			wantCategory: clierrors.Prerequisite,
			wantMessage:  `template "commit" in tmpl`,
		},
		"remote": {
			err:          &remote.RemoteRepositoryError{URL: "https://github.com/a/b", Status: 404},
			wantCategory: clierrors.Configuration,
			wantMessage:  "status 404",
		},
		"no repository": {
			err:          fmt.Errorf("detecting: %w", remote.ErrNoRepository),
			wantCategory: clierrors.Configuration,
			wantMessage:  "could not be determined",
		},
		"config": {
			err:          &config.ValidationError{Message: "workers must be at least 1"},
			wantCategory: clierrors.Configuration,
			wantMessage:  "invalid configuration",
		},
		"cancelled": {
			err:          fmt.Errorf("reading commits: %w", context.Canceled),
			wantCategory: clierrors.Runtime,
			wantMessage:  "interrupted",
		},
		"other": {
			err:          errors.New("disk full"),
			wantCategory: clierrors.Runtime,
			wantMessage:  "disk full",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Contains(t, got.Message, tt.wantMessage)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	t.Parallel()

	cliErr := clierrors.New(clierrors.Argument, "bad")
	assert.Same(t, cliErr, classify(fmt.Errorf("wrapped: %w", cliErr)))
	assert.Nil(t, classify(nil))
	assert.Nil(t, classify(NewExitError(2)))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":          {err: nil, want: ExitSuccess},
		"exit error":   {err: NewExitError(7), want: 7},
		"argument":     {err: clierrors.New(clierrors.Argument, "x"), want: ExitInvalidArguments},
		"config":       {err: clierrors.RepositoryUnknown(), want: ExitInvalidArguments},
		"prerequisite": {err: clierrors.NotARepository("."), want: ExitMissingDependencies},
		"runtime":      {err: &changelog.CommitLookupError{Ref: "x"}, want: ExitRuntimeError},
		"plain":        {err: errors.New("x"), want: ExitRuntimeError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "exit status 3", NewExitError(3).Error())

	cause := errors.New("boom")
	err := &ExitError{Code: 1, Err: cause}
	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestExecute_ReportsErrors(t *testing.T) {
	cmd := &cobra.Command{
		Use:           "fail",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(*cobra.Command, []string) error {
			return clierrors.MissingChangelog("CHANGELOG.md")
		},
	}
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{})

	err := execute(context.Background(), cmd)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "changelog not found: CHANGELOG.md")
	assert.Contains(t, stderr.String(), "To fix this:")
}
