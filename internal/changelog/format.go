package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps category titles to their terminal styling.
var categoryStyles = map[string]CategoryStyle{
	CategoryAdded:        {Color: color.New(color.FgGreen), Icon: "✓"},
	CategoryRewritten:    {Color: color.New(color.FgBlue), Icon: "↻"},
	CategoryChanged:      {Color: color.New(color.FgBlue), Icon: "~"},
	CategoryModified:     {Color: color.New(color.FgBlue), Icon: "~"},
	CategoryRemoved:      {Color: color.New(color.FgRed), Icon: "✗"},
	CategoryDeprecated:   {Color: color.New(color.FgRed), Icon: "⚠"},
	CategoryFixed:        {Color: color.New(color.FgYellow), Icon: "⚡"},
	CategorySecurity:     {Color: color.New(color.FgMagenta), Icon: "🔒"},
	CategoryPerformance:  {Color: color.New(color.FgCyan), Icon: "»"},
	CategoryDependencies: {Color: color.New(color.FgCyan), Icon: "⬆"},
}

var defaultStyle = CategoryStyle{Color: color.New(color.FgWhite), Icon: "•"}

func styleFor(category string) CategoryStyle {
	if s, ok := categoryStyles[category]; ok {
		return s
	}
	return defaultStyle
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatPreview writes a terminal summary of the release v would produce.
func FormatPreview(v *View, w io.Writer, opts FormatOptions) error {
	if err := writeReleaseHeader(v, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if v.IsEmpty() {
		_, err := fmt.Fprintln(w, "\nNo changes to release.")
		return err
	}

	width := resolveWidth(opts.MaxWidth)
	for _, cat := range v.Categories {
		if err := writeCategorySection(cat, w, opts, width); err != nil {
			return fmt.Errorf("formatting category %s: %w", cat.Title, err)
		}
	}
	return nil
}

// writeReleaseHeader writes the version transition line.
func writeReleaseHeader(v *View, w io.Writer, opts FormatOptions) error {
	header := v.Tag
	if v.Bumped() {
		header = fmt.Sprintf("%s → %s", v.PreviousTag, v.Tag)
	}
	detail := fmt.Sprintf("%s, %d %s", bumpName(v.Rank), v.CommitCount(), plural(v.CommitCount(), "commit", "commits"))
	if v.Current != nil {
		detail += ", " + v.Current.Date
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s (%s)\n", header, detail)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s %s\n", bold(header), faint("("+detail+")"))
	return err
}

func bumpName(r Rank) string {
	switch r.Highest() {
	case BreakingChange:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	default:
		return "no version change"
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// writeCategorySection writes a single category with its commits.
func writeCategorySection(cat Category, w io.Writer, opts FormatOptions, width int) error {
	style := styleFor(cat.Title)

	if err := writeCategoryHeader(cat.Title, style, w, opts); err != nil {
		return err
	}
	for _, c := range cat.Commits {
		if err := writeEntry(c, style, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeCategoryHeader writes the category header line.
func writeCategoryHeader(title string, style CategoryStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n### %s\n", title)
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(title))
	return err
}

// writeEntry writes a single commit with optional wrapping.
func writeEntry(c CommitRecord, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "
	label := "[" + c.Semver.String() + "]"

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s %s %s\n", prefix, c.ShortHash, label, c.Summary)
		return err
	}

	text := fmt.Sprintf("%s %s", c.Summary, label)
	lead := len(prefix) + len(c.ShortHash) + 1
	wrapped := wrapText(text, width-lead, strings.Repeat(" ", lead))

	colored := style.Color.SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s %s\n", prefix, faint(c.ShortHash), colored(wrapped))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
