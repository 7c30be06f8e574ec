package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/repokit/repokit/internal/build"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	versionPlain bool
	versionYAML  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for repokit",
	Example: `  # Show version info
  repokit version

  # Plain output (for scripts)
  repokit version --plain`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := build.Current()
		out := cmd.OutOrStdout()
		switch {
		case versionYAML:
			return printYAMLVersion(out, info)
		case versionPlain:
			printPlainVersion(out, info)
		default:
			printPrettyVersion(out, info)
		}
		return nil
	},
}

func init() {
	versionCmd.GroupID = GroupSetup
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
	versionCmd.Flags().BoolVar(&versionYAML, "yaml", false, "Output as YAML")
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer, info build.Info) {
	fmt.Fprintf(w, "repokit %s\n", info.Version)
	fmt.Fprintf(w, "commit: %s\n", info.Commit)
	fmt.Fprintf(w, "built: %s\n", info.BuildDate)
	fmt.Fprintf(w, "go: %s\n", info.GoVersion)
	fmt.Fprintf(w, "platform: %s\n", info.Platform)
}

func printYAMLVersion(w io.Writer, info build.Info) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(info); err != nil {
		return fmt.Errorf("encoding version: %w", err)
	}
	return enc.Close()
}

// printPrettyVersion prints the labelled table inside a box
func printPrettyVersion(w io.Writer, info build.Info) {
	dim := color.New(color.Faint).SprintFunc()
	white := color.New(color.FgWhite, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	rows := []struct {
		label string
		value string
	}{
		{"Version", info.Version},
		{"Commit", truncateCommit(info.Commit)},
		{"Built", info.BuildDate},
		{"Go", info.GoVersion},
		{"Platform", info.Platform},
	}

	const labelWidth = 10
	width := 0
	for _, r := range rows {
		if len(r.value) > width {
			width = len(r.value)
		}
	}
	inner := labelWidth + 4 + width + 2

	fmt.Fprintln(w, dim("┌"+strings.Repeat("─", inner)+"┐"))
	for _, r := range rows {
		pad := strings.Repeat(" ", width-len(r.value))
		fmt.Fprintf(w, "%s  %s    %s%s%s\n", dim("│"), yellow(fmt.Sprintf("%*s", labelWidth, r.label)), white(r.value), pad, dim("│"))
	}
	fmt.Fprintln(w, dim("└"+strings.Repeat("─", inner)+"┘"))
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
