package cli

import (
	"github.com/repokit/repokit/internal/changelog"
	"github.com/spf13/cobra"
)

var previewPlain bool

var changelogPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the next release without writing it",
	Long: `Run the changelog pipeline without touching the file and print a
summary of the next release: the version bump, and the commits of each
category in display order.`,
	Example: `  # Preview the next release
  repokit changelog preview

  # Plain output (no colors/icons)
  repokit changelog preview --plain`,
	Args: cobra.NoArgs,
	RunE: runChangelogPreview,
}

func init() {
	changelogCmd.AddCommand(changelogPreviewCmd)
	changelogPreviewCmd.Flags().BoolVar(&previewPlain, "plain", false, "Plain text output (no colors/icons)")
}

func runChangelogPreview(cmd *cobra.Command, _ []string) error {
	result, err := generate(cmd, true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	caps := capabilitiesOf(out)
	return changelog.FormatPreview(result.View, out, changelog.FormatOptions{
		Plain:    previewPlain || !caps.SupportsUnicode,
		MaxWidth: caps.Width,
	})
}
